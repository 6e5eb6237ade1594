// Package llm provides the chat completion client used for subtitle
// translation against any OpenAI-compatible endpoint.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.TranslateBatch: send a JSON-serialized chunk, receive raw text.
// Client.TranslateOne: send one line, receive text with <think> spans removed.
// Client.HealthCheck: verify endpoint, key, and model.
// DecodeLLMJSON: lenient JSON decoding for model output.
//
// # Failure Behaviour
//
// Each call is a single attempt bounded by the configured timeout (300s by
// default). Transport errors, non-2xx responses (*StatusError), API error
// bodies (*APIError), and empty completions are returned to the caller. The
// translation package decides how to fall back.
package llm
