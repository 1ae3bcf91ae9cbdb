package repository

// Usage adapts the repositories to the aggregate queries the entitlement
// engine runs. Counts are live reads against committed state.
type Usage struct {
	repos *Repositories
}

func NewUsage(repos *Repositories) *Usage {
	return &Usage{repos: repos}
}

func (u *Usage) PortalCountByOwner(userID uint) (int64, error) {
	return u.repos.Portal.CountByOwner(userID)
}

func (u *Usage) StorageBytesByOwner(userID uint) (int64, error) {
	return u.repos.File.StorageBytesByOwner(userID)
}

func (u *Usage) FileCountByPortal(portalID uint) (int64, error) {
	return u.repos.File.CountByPortal(portalID)
}

func (u *Usage) UpdateCountByPortal(portalID uint) (int64, error) {
	return u.repos.Update.CountByPortal(portalID)
}
