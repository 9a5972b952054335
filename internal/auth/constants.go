package auth

const (
	ContextKeyIdentity = "identity"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2

	rolePrefix = "ROLE_"
)

const (
	msgUserNotAuthenticated     = "user not authenticated"
	msgInvalidIdentityCtx       = "invalid identity in context"
	msgUnexpectedSigningMethod  = "unexpected signing method: %v"
	msgTokenRejected            = "bearer token rejected, continuing without identity"
	msgAuthorizationHeaderShape = "authorization header is not a bearer token, continuing without identity"
	msgIdentityResolved         = "identity resolved from bearer token"
	msgSignTokenFailedFmt       = "failed to sign token: %w"
	msgSubjectRequired          = "token subject is required"
	msgRoleRequired             = "token role is required"
)
