package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/plankhq/plank/shared/logger"
)

type MembershipChecker interface {
	IsMember(projectId, userId int64) (bool, error)
}

// RequireProjectMember assumes:
// 1. User added to request context in prior middleware
// 2. Route carries a {projectId} URL parameter
func RequireProjectMember(members MembershipChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			rawId := chi.URLParam(r, "projectId")
			if rawId == "" {
				// if no project in route params - skip
				next.ServeHTTP(w, r)
				return
			}

			projectId, err := strconv.ParseInt(rawId, 10, 64)
			if err != nil {
				http.Error(w, "Invalid project id", http.StatusBadRequest)
				return
			}

			user := GetUserFromContext(r)
			if user == nil {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}

			ok, err := members.IsMember(projectId, user.Id)
			if err != nil {
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			// Log and deny access
			logger.Log.Warn("project access restricted",
				"user_id", user.Id,
				"project_id", projectId)
			http.Error(w, "Access restricted", http.StatusForbidden)
		})
	}
}
