// Package seed imports sites and their schedules from a YAML file. Records go
// through the site and schedule services, so field validation and trigger
// installation apply exactly as they do for API requests.
package seed

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"uptime-monitor/internals/modules/schedule"
	"uptime-monitor/internals/modules/site"
	"uptime-monitor/internals/modules/user"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type File struct {
	Sites []SiteEntry `yaml:"sites" validate:"dive"`
}

type SiteEntry struct {
	URL            string          `yaml:"url" validate:"required,http_url,max=200"`
	Method         string          `yaml:"method" validate:"omitempty,oneof=GET HEAD POST PUT PATCH DELETE OPTIONS"`
	ExpectedStatus int             `yaml:"expected_status" validate:"omitempty,gte=100,lte=599"`
	ExpectedText   string          `yaml:"expected_text" validate:"max=128"`
	HostedAt       string          `yaml:"hosted_at" validate:"max=128"`
	TimeoutSec     int             `yaml:"timeout_sec" validate:"omitempty,gte=1,lte=60"`
	Schedules      []ScheduleEntry `yaml:"schedules" validate:"dive"`
}

type ScheduleEntry struct {
	Name     string         `yaml:"name" validate:"required,max=64"`
	Cron     string         `yaml:"cron" validate:"max=64"`
	Interval *IntervalEntry `yaml:"interval" validate:"omitempty"`
}

type IntervalEntry struct {
	Every int    `yaml:"every" validate:"required,gte=1,lte=999"`
	Unit  string `yaml:"unit" validate:"required,oneof=seconds minutes hours days weeks"`
}

func (e ScheduleEntry) rule() schedule.Recurrence {
	r := schedule.Recurrence{Cron: e.Cron}
	if e.Interval != nil {
		r.Interval = &schedule.Interval{Every: e.Interval.Every, Unit: schedule.IntervalUnit(e.Interval.Unit)}
	}
	return r
}

// Parse decodes and validates a seed file. Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	var f File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return File{}, fmt.Errorf("decode seed file: %w", err)
	}

	if err := newValidator().Struct(f); err != nil {
		return File{}, fmt.Errorf("invalid seed file: %w", err)
	}
	for i, s := range f.Sites {
		for j, sc := range s.Schedules {
			if err := sc.rule().Validate(); err != nil {
				return File{}, fmt.Errorf("sites[%d].schedules[%d] %q: %w", i, j, sc.Name, err)
			}
		}
	}
	return f, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
	})
	return v
}

type OwnerResolver interface {
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

type SiteRegistry interface {
	CreateSite(ctx context.Context, cmd site.SiteCmd) (site.Site, error)
	ListSites(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]site.Site, error)
}

type ScheduleApplier interface {
	ApplyByName(ctx context.Context, cmd schedule.ScheduleCmd) (schedule.Schedule, schedule.Trigger, error)
}

type Importer struct {
	owners    OwnerResolver
	sites     SiteRegistry
	schedules ScheduleApplier
	logger    *zerolog.Logger
}

func NewImporter(owners OwnerResolver, sites SiteRegistry, schedules ScheduleApplier, logger *zerolog.Logger) *Importer {
	return &Importer{
		owners:    owners,
		sites:     sites,
		schedules: schedules,
		logger:    logger,
	}
}

type Summary struct {
	SitesCreated int
	SitesReused  int
	Schedules    int
}

// Import applies f on behalf of the user with ownerEmail. A site that the
// owner already has with the same url and method is reused, and schedules
// are matched by name, so running the same file twice changes nothing.
func (im *Importer) Import(ctx context.Context, ownerEmail string, f File) (Summary, error) {
	var sum Summary

	owner, err := im.owners.GetUserByEmail(ctx, ownerEmail)
	if err != nil {
		return sum, fmt.Errorf("resolve owner %q: %w", ownerEmail, err)
	}

	existing, err := im.ownedSites(ctx, owner.ID)
	if err != nil {
		return sum, err
	}

	for _, entry := range f.Sites {
		method := site.Method(strings.ToUpper(entry.Method))
		if method == "" {
			method = site.MethodGet
		}

		s, ok := existing[siteKey(entry.URL, method)]
		if ok {
			sum.SitesReused++
		} else {
			s, err = im.sites.CreateSite(ctx, site.SiteCmd{
				UserID:         owner.ID,
				URL:            entry.URL,
				Method:         method,
				ExpectedStatus: entry.ExpectedStatus,
				ExpectedText:   null.StringFrom(entry.ExpectedText),
				HostedAt:       null.StringFrom(entry.HostedAt),
				Timeout:        time.Duration(entry.TimeoutSec) * time.Second,
			})
			if err != nil {
				return sum, fmt.Errorf("create site %s: %w", entry.URL, err)
			}
			existing[siteKey(s.URL, s.Method)] = s
			sum.SitesCreated++
		}

		for _, sc := range entry.Schedules {
			_, trg, err := im.schedules.ApplyByName(ctx, schedule.ScheduleCmd{
				UserID: owner.ID,
				Name:   sc.Name,
				SiteID: s.ID,
				Rule:   sc.rule(),
			})
			if err != nil {
				return sum, fmt.Errorf("apply schedule %q: %w", sc.Name, err)
			}
			sum.Schedules++

			im.logger.Info().
				Int64("site_id", s.ID).
				Str("schedule", sc.Name).
				Str("trigger_id", trg.ID.String()).
				Msg("schedule applied")
		}
	}

	return sum, nil
}

func siteKey(url string, m site.Method) string { return string(m) + " " + url }

func (im *Importer) ownedSites(ctx context.Context, userID uuid.UUID) (map[string]site.Site, error) {
	const page int32 = 100

	out := make(map[string]site.Site)
	for offset := int32(0); ; offset += page {
		batch, err := im.sites.ListSites(ctx, userID, page, offset)
		if err != nil {
			return nil, fmt.Errorf("list owner sites: %w", err)
		}
		for _, s := range batch {
			out[siteKey(s.URL, s.Method)] = s
		}
		if int32(len(batch)) < page {
			return out, nil
		}
	}
}
