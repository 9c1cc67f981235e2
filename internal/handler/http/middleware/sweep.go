package middleware

import (
	"net/http"

	attendanceService "github.com/attendly/attendance-backend-go/internal/service/attendance"
)

// AutoAbsent triggers the daily absence sweep before handling attendance
// traffic. The sweeper runs at most once per day, so on all but the first
// request of the day this is a cheap in-memory check.
func AutoAbsent(sweeper *attendanceService.Sweeper) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sweeper.Run(r.Context())
			next.ServeHTTP(w, r)
		})
	}
}
