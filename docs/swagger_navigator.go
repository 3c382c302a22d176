package docs

// @title           Navigator API
// @version         1.0
// @description     Control API of the navigation session agent: opens and registers the session, pushes location samples, starts and ends trips and serves the route pushed by the navigation service.

// @host      localhost:3010
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. Required only when AUTH_JWT_SECRET is set.
