package apperror

// Auth
var (
	ErrLoginFailed       = New(KindUnauthorized, "LOGIN_FAILED", "email or password does not match")
	ErrInvalidPassword   = New(KindUnauthorized, "INVALID_PASSWORD", "invalid password")
	ErrNotLoggedIn       = New(KindUnauthorized, "NOT_LOGGED_IN", "user is not logged in")
	ErrInvalidAuthHeader = New(KindUnauthorized, "INVALID_AUTH_HEADER", "invalid authorization header")
	ErrInvalidToken      = New(KindUnauthorized, "INVALID_ACCESS_TOKEN", "invalid or expired token")
	ErrForbiddenAccess   = New(KindForbidden, "FORBIDDEN_ACCESS", "access denied")
)

// User
var (
	ErrDuplicateEmail    = New(KindConflict, "DUPLICATE_EMAIL", "email already registered")
	ErrUserNotFound      = New(KindNotFound, "NOT_FOUND_USER", "user not found")
	ErrSameAsOldPassword = New(KindConflict, "SAME_AS_OLD_PASSWORD", "same as old password")
	ErrInvalidUserRole   = New(KindBadRequest, "INVALID_USER_ROLE", "invalid user role")
)

// Todo, Comment
var (
	ErrTodoNotFound    = New(KindNotFound, "NOT_FOUND_TODO", "todo not found")
	ErrCommentNotFound = New(KindNotFound, "NOT_FOUND_COMMENT", "comment not found")
)

// Manager
var (
	ErrInvalidWriterUser      = New(KindForbidden, "INVALID_WRITER_USER", "invalid writer user")
	ErrManagerUserNotFound    = New(KindNotFound, "MANAGER_USER_NOT_FOUND", "manager user not found")
	ErrCannotAssignSelf       = New(KindConflict, "CANNOT_ASSIGN_SELF_AS_MANAGER", "cannot assign self as manager")
	ErrManagerNotFound        = New(KindNotFound, "NOT_FOUND_MANAGER", "manager not found")
	ErrManagerNotAssignedTodo = New(KindForbidden, "NOT_ASSIGNED_TO_TODO", "not assigned to todo")
)

// Global
var (
	ErrValidationFailed = New(KindBadRequest, "VALIDATION_FAILED", "invalid request payload")
)

// Weather
var (
	ErrWeatherAPIFailure    = New(KindUpstream, "WEATHER_API_FAILURE", "failed to fetch weather data")
	ErrEmptyWeatherData     = New(KindUpstream, "EMPTY_WEATHER_DATA", "weather data is empty")
	ErrTodayWeatherNotFound = New(KindUpstream, "TODAY_WEATHER_NOT_FOUND", "no weather data for today")
)
