package shared

import "time"

// HTTP Client Configuration
const (
	DefaultInferenceTimeout = 60 * time.Second
	DefaultAuthTimeout      = 30 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second
)

// Generation Configuration
//
// Decoding parameters are constants of the inference client, not
// caller-configurable. Greedy decoding keeps replies deterministic for a
// given prompt.
const (
	DecodingMethodGreedy     = "greedy"
	DefaultMaxNewTokens      = 200
	DefaultMinNewTokens      = 1
	DefaultRepetitionPenalty = 1.05
	GenerationAPIVersion     = "2023-05-29"
)

// Endpoint Configuration
const (
	DefaultBaseURL = "https://us-south.ml.cloud.ibm.com"
	DefaultAuthURL = "https://iam.cloud.ibm.com/identity/token"
	DefaultModelID = "ibm/granite-13b-chat-v2"
)

// Identity tokens are refreshed once they fall within this margin of expiry
const TokenExpiryMargin = 60 * time.Second
