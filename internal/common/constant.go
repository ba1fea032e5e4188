package common

// AuthorizationHeaderName is the HTTP header carrying the access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token inside the Authorization header.
const BearerScheme = "Bearer"

// PlaceholderImagePath is served from the assets directory and used when a
// story is saved without an image.
const PlaceholderImagePath = "/assets/placeholder.png"

// UploadsPathPrefix is the public path under which uploaded images are served.
const UploadsPathPrefix = "/uploads/"
