package handler

const (
	jsonKeyError = "error"

	statusUp   = "UP"
	statusDown = "DOWN"

	serviceName = "Stock Management API"

	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidCredentials      = "invalid username or password"
	msgAccountLocked           = "too many failed attempts, try again later"
	msgAdminOnly               = "this account cannot sign in here"
	msgGenerateTokenFail       = "failed to generate token"
	msgLoginUnavailable        = "login is temporarily unavailable"
	msgInvalidQueryParam       = "invalid query parameter"
	msgAuditUnavailable        = "audit log unavailable"
	msgAPIRunning              = "API is running successfully"

	queryParamLimit  = "limit"
	queryParamOffset = "offset"
	queryParamActor  = "actor"
	queryParamAction = "action"
	queryParamStatus = "status"

	maxUsernameLength = 100
	maxPasswordLength = 72
)
