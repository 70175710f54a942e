package tenant

import "gorm.io/gorm"

// Scope restricts a query to one organization. Every repository call that
// touches tenant-owned rows goes through this; the org id always arrives
// as an explicit parameter, never from ambient state.
func Scope(organizationID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}
