package handlers

import (
	"net/http"
	"time"

	"github.com/arnavdeep/vidtube-be/internal/auth"
)

// setAuthCookies hands the token pair to the client as httpOnly cookies,
// mirroring the JSON body fields.
func setAuthCookies(w http.ResponseWriter, pair auth.TokenPair, secure bool, accessTTL, refreshTTL time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Expires:  time.Now().Add(accessTTL),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Expires:  time.Now().Add(refreshTTL),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// clearAuthCookies instructs the client to discard both tokens.
func clearAuthCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
		})
	}
}
