package seed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"uptime-monitor/internals/modules/schedule"
	"uptime-monitor/internals/modules/site"
	"uptime-monitor/internals/modules/user"
	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/logger"

	"github.com/google/uuid"
)

const sample = `
sites:
  - url: https://example.com
    expected_text: Example Domain
    timeout_sec: 10
    schedules:
      - name: example-every-minute
        cron: "* * * * *"
      - name: example-every-30s
        interval:
          every: 30
          unit: seconds
  - url: https://example.org/health
    method: head
    schedules:
      - name: org-hourly
        interval: {every: 1, unit: hours}
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(f.Sites) != 2 || len(f.Sites[0].Schedules) != 2 {
		t.Fatalf("unexpected shape: %+v", f)
	}
	if r := f.Sites[0].Schedules[1].rule(); r.IsCron() || r.Interval.Duration() != 30*time.Second {
		t.Fatalf("interval rule = %+v", r)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "sites:\n  - url: https://a.b\n    colour: red\n",
		"bad url":       "sites:\n  - url: not a url\n",
		"ftp url":       "sites:\n  - url: ftp://a.b/file\n",
		"bad timeout":   "sites:\n  - url: https://a.b\n    timeout_sec: 61\n",
		"two rules":     "sites:\n  - url: https://a.b\n    schedules:\n      - name: x\n        cron: \"* * * * *\"\n        interval: {every: 1, unit: hours}\n",
		"no rule":       "sites:\n  - url: https://a.b\n    schedules:\n      - name: x\n",
		"six fields":    "sites:\n  - url: https://a.b\n    schedules:\n      - name: x\n        cron: \"0 * * * * *\"\n",
		"bad unit":      "sites:\n  - url: https://a.b\n    schedules:\n      - name: x\n        interval: {every: 1, unit: years}\n",
		"missing name":  "sites:\n  - url: https://a.b\n    schedules:\n      - cron: \"* * * * *\"\n",
		"every too big": "sites:\n  - url: https://a.b\n    schedules:\n      - name: x\n        interval: {every: 1000, unit: seconds}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(doc)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

type fakeOwners struct{ u user.User }

func (f fakeOwners) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	if email != f.u.Email {
		return user.User{}, apperror.New(apperror.NotFound, "test", errors.New("no user"))
	}
	return f.u, nil
}

type fakeSites struct {
	next  int64
	sites []site.Site
}

func (f *fakeSites) CreateSite(_ context.Context, cmd site.SiteCmd) (site.Site, error) {
	f.next++
	s := site.Site{ID: f.next, UserID: cmd.UserID, URL: cmd.URL, Method: cmd.Method}
	f.sites = append(f.sites, s)
	return s, nil
}

func (f *fakeSites) ListSites(_ context.Context, userID uuid.UUID, limit, offset int32) ([]site.Site, error) {
	var out []site.Site
	for i, s := range f.sites {
		if int32(i) >= offset && int32(len(out)) < limit && s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSchedules struct {
	byName map[string]schedule.ScheduleCmd
}

func (f *fakeSchedules) ApplyByName(_ context.Context, cmd schedule.ScheduleCmd) (schedule.Schedule, schedule.Trigger, error) {
	f.byName[cmd.Name] = cmd
	return schedule.Schedule{Name: cmd.Name, SiteID: cmd.SiteID}, schedule.Trigger{ID: uuid.New(), SiteID: cmd.SiteID}, nil
}

func TestImportIsRepeatable(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "ops@example.com"}
	sites := &fakeSites{}
	scheds := &fakeSchedules{byName: map[string]schedule.ScheduleCmd{}}
	im := NewImporter(fakeOwners{owner}, sites, scheds, logger.Nop())

	f, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	first, err := im.Import(context.Background(), owner.Email, f)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if first.SitesCreated != 2 || first.Schedules != 3 {
		t.Fatalf("first run = %+v", first)
	}
	if sites.sites[1].Method != site.MethodHead {
		t.Fatalf("method not normalised: %q", sites.sites[1].Method)
	}

	second, err := im.Import(context.Background(), owner.Email, f)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.SitesCreated != 0 || second.SitesReused != 2 || len(sites.sites) != 2 {
		t.Fatalf("second run = %+v, sites = %d", second, len(sites.sites))
	}
	if got := scheds.byName["org-hourly"]; got.SiteID != 2 || got.UserID != owner.ID {
		t.Fatalf("schedule cmd = %+v", got)
	}
}

func TestImportUnknownOwner(t *testing.T) {
	im := NewImporter(fakeOwners{user.User{Email: "a@b.c"}}, &fakeSites{}, &fakeSchedules{}, logger.Nop())

	if _, err := im.Import(context.Background(), "nobody@b.c", File{}); !apperror.IsKind(err, apperror.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
