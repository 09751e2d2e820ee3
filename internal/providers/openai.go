package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/time/rate"
)

const (
	OpenAIName              = "openai"
	openAIDefaultModel      = openai.SpeechModelTTS1HD
	openAIDefaultVoice      = "onyx"
	openAIDefaultRateLimit  = 8.0 // requests per second, ~500 RPM
	openAIDefaultMaxRetries = 3
	openAIDefaultTimeout    = 300 * time.Second
)

// openAIVoices is the fixed catalog OpenAI's speech endpoint accepts; the
// API has no voice-listing call.
var openAIVoices = []Voice{
	{ID: "alloy", Name: "Alloy", Locale: "en-US"},
	{ID: "ash", Name: "Ash", Locale: "en-US"},
	{ID: "coral", Name: "Coral", Locale: "en-US", Gender: "female"},
	{ID: "echo", Name: "Echo", Locale: "en-US", Gender: "male"},
	{ID: "fable", Name: "Fable", Locale: "en-GB"},
	{ID: "nova", Name: "Nova", Locale: "en-US", Gender: "female"},
	{ID: "onyx", Name: "Onyx", Locale: "en-US", Gender: "male"},
	{ID: "sage", Name: "Sage", Locale: "en-US", Gender: "female"},
	{ID: "shimmer", Name: "Shimmer", Locale: "en-US", Gender: "female"},
}

// OpenAIConfig holds configuration for the OpenAI speech client.
type OpenAIConfig struct {
	APIKey     string
	Model      string        // "tts-1-hd" (default), "tts-1", "gpt-4o-mini-tts"
	Voice      string        // default voice when a request names none
	Speed      float64       // 0.25-4.0
	RateLimit  float64       // requests per second
	MaxRetries int           // retry attempts for SDK transport
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // optional (tests)
	HTTPClient *http.Client  // optional (tests)
}

// OpenAIClient implements TTSProvider using the official OpenAI SDK.
type OpenAIClient struct {
	model   string
	voice   string
	speed   float64
	limiter *rate.Limiter
	client  openai.Client
}

// NewOpenAIClient creates an OpenAI speech client with defaults filled in.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = openAIDefaultVoice
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1.0
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = openAIDefaultRateLimit
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = openAIDefaultMaxRetries
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = openAIDefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:   cfg.Model,
		voice:   cfg.Voice,
		speed:   cfg.Speed,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		client:  openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Voices returns the fixed OpenAI voice catalog.
func (c *OpenAIClient) Voices(ctx context.Context) ([]Voice, error) {
	voices := make([]Voice, len(openAIVoices))
	copy(voices, openAIVoices)
	return voices, nil
}

// Synthesize streams narrated audio for one request. The rate limiter gates
// the call; cancellation during the wait surfaces as ctx.Err().
func (c *OpenAIClient) Synthesize(ctx context.Context, req SpeechRequest) (io.ReadCloser, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("openai: text is required")
	}

	voice := strings.TrimSpace(req.Voice)
	if voice == "" {
		voice = c.voice
	}
	speed := req.Speed
	if speed <= 0 {
		speed = c.speed
	}
	format := normalizeFormat(req.Format)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(c.model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: format,
		Speed:          openai.Float(speed),
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech request: %w", err)
	}
	return resp.Body, nil
}

// normalizeFormat maps a requested container to the SDK constant, defaulting
// to WAV so downstream encoding never has to sniff.
func normalizeFormat(format string) openai.AudioSpeechNewParamsResponseFormat {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "mp3":
		return openai.AudioSpeechNewParamsResponseFormatMP3
	case "aac":
		return openai.AudioSpeechNewParamsResponseFormatAAC
	case "flac":
		return openai.AudioSpeechNewParamsResponseFormatFLAC
	case "opus":
		return openai.AudioSpeechNewParamsResponseFormatOpus
	case "pcm":
		return openai.AudioSpeechNewParamsResponseFormatPCM
	default:
		return openai.AudioSpeechNewParamsResponseFormatWAV
	}
}
