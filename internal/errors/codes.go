package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// Frontends map these codes to display messages; the message field is a
// fallback only.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailExists        = "AUTH_EMAIL_EXISTS"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthWrongPassword      = "AUTH_WRONG_PASSWORD"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_/CATEGORY_) ====================
	ProductNotFound  = "PRODUCT_NOT_FOUND"
	CategoryNotFound = "CATEGORY_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartItemNotFound    = "CART_ITEM_NOT_FOUND"
	CartInvalidQuantity = "CART_INVALID_QUANTITY"

	// ==================== Wishlist (WISHLIST_) ====================
	WishlistNotFound      = "WISHLIST_NOT_FOUND"
	WishlistItemNotFound  = "WISHLIST_ITEM_NOT_FOUND"
	WishlistItemDuplicate = "WISHLIST_ITEM_DUPLICATE"

	// ==================== Address (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
