package access

import (
	"errors"
	"fmt"

	apperrors "stock-service/pkg/errors"
)

var (
	ErrUnauthenticated = fmt.Errorf("%w: authentication required", apperrors.ErrUnauthorized)
	ErrForbidden       = fmt.Errorf("%w: role not permitted for this resource", apperrors.ErrForbidden)
	ErrInvalidRule     = errors.New("invalid access rule")
)

const (
	errPatternEmpty               = "pattern must not be empty"
	errPatternNoLeadingSlashFmt   = "pattern %q must start with '/'"
	errPatternEmptySegmentFmt     = "pattern %q contains an empty segment"
	errPatternDoubleStarFmt       = "pattern %q may only use '**' as its final segment"
	errPatternPartialWildcardFmt  = "pattern %q: wildcard must be a whole segment"
	errRuleFmt                    = "%w: rule %d (%s): %s"
	errUnknownRequirementFmt      = "unknown requirement %q"
	errRoleRequirementNoRoles     = "role requirement needs at least one role"
	errRoleRequirementEmptyRole   = "role requirement contains an empty role"
	errUnknownMethodFmt           = "unknown HTTP method %q"
	errRolesOnNonRoleRequirement  = "roles are only allowed on a role requirement"
	errMustNewPanicFmt            = "access.MustNew: %v"
	errReadRulesFileFmt           = "failed to read access rules file: %w"
	errDecodeRulesFmt             = "failed to decode access rules: %w"
	msgInternalFaultFailingClosed = "access engine fault, denying request"
)
