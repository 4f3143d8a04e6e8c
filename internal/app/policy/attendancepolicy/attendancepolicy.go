// internal/app/policy/attendancepolicy/attendancepolicy.go
package attendancepolicy

import (
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/authz"
	"github.com/dalemusser/squadlog/internal/domain/models"
)

// CanManage reports whether a may view or record attendance for c.
func CanManage(a *auth.Actor, c models.CheckIn) bool {
	return authz.IsCoachOf(a, c.GroupID)
}
