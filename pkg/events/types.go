package events

const (
	SignupTokensGranted = "SIGNUP_TOKENS_GRANTED"
	TokensConsumed      = "TOKENS_CONSUMED"
	TokenRefunded       = "TOKEN_REFUNDED"
	TokensPurchased     = "TOKENS_PURCHASED"
	TokenBalanceLow     = "TOKEN_BALANCE_LOW"

	SceneReady  = "SCENE_READY"
	SceneFailed = "SCENE_FAILED"
)
