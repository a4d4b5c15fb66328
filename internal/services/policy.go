package services

import "mars/internal/models"

// Viewer is the principal behind a request: anonymous or a specific user.
type Viewer struct {
	user *models.User
}

// AnonymousViewer returns the principal of a request without a valid session.
func AnonymousViewer() Viewer {
	return Viewer{}
}

// AuthenticatedViewer returns the principal for a logged-in user.
func AuthenticatedViewer(user *models.User) Viewer {
	return Viewer{user: user}
}

// IsAuthenticated reports whether the viewer is logged in.
func (v Viewer) IsAuthenticated() bool {
	return v.user != nil
}

// User returns the logged-in user, or nil for an anonymous viewer.
func (v Viewer) User() *models.User {
	return v.user
}

// UserID returns the viewer's user ID, or 0 when anonymous.
func (v Viewer) UserID() uint {
	if v.user == nil {
		return 0
	}
	return v.user.ID
}

// CanRead reports whether v may see news in a listing.
func CanRead(v Viewer, news *models.News) bool {
	return !news.IsPrivate || CanModify(v, news)
}

// CanModify reports whether v may load for edit, update or delete news.
func CanModify(v Viewer, news *models.News) bool {
	return v.IsAuthenticated() && v.UserID() == news.UserID
}
