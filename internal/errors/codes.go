package errors

// API error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL; the frontend maps these to messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (CATALOG_) ====================
	CatalogGameNotFound   = "CATALOG_GAME_NOT_FOUND"
	CatalogBundleNotFound = "CATALOG_BUNDLE_NOT_FOUND"
	CatalogInvalidRating  = "CATALOG_INVALID_RATING"

	// ==================== Commerce (COMMERCE_) ====================
	CommerceAlreadyOwned    = "COMMERCE_ALREADY_OWNED"
	CommerceCheckoutInvalid = "COMMERCE_CHECKOUT_INVALID"
	CommerceOrderNotFound   = "COMMERCE_ORDER_NOT_FOUND"
	CommerceInvalidStatus   = "COMMERCE_INVALID_STATUS"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalDataIntegrity = "INTERNAL_DATA_INTEGRITY"
)
