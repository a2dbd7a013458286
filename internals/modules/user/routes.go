package user

import (
	middle "uptime-monitor/internals/middleware"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, authMW *middle.AuthMiddleware) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.LogIn)
	r.With(authMW.Handle).Get("/profile", h.GetProfile)

	return r
}

/*
- POST: /users/register  -> register user
	req auth : false
	body : RegisterRequest
	resp : RegisterResponse

- POST: /users/login   -> login user
	req auth : false
	body : LogInRequest
	resp : LogInResponse

- GET: /users/profile -> get user profile
	req auth : true
	body : nil
	resp : GetProfileResponse
*/
