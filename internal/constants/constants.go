package constants

import "time"

var DeckConfig = struct {
	VisibleCards      int
	SwipeDelay        time.Duration
	KeepFlashDuration time.Duration
	ClearConfirm      time.Duration
}{
	VisibleCards:      2,                      // top card + one underneath
	SwipeDelay:        200 * time.Millisecond, // exit animation before commit
	KeepFlashDuration: 2 * time.Second,
	ClearConfirm:      3 * time.Second, // clear-all arm window
}

var ImageConfig = struct {
	CriticalCount   int
	BatchSize       int
	Concurrency     int
	MinDisplay      time.Duration
	ThumbnailSize   int
	CacheTTL        time.Duration
	CleanupInterval time.Duration
	PrefetchDelay   time.Duration
}{
	CriticalCount:   5,
	BatchSize:       5,
	Concurrency:     5,
	MinDisplay:      2 * time.Second, // loading floor
	ThumbnailSize:   600,
	CacheTTL:        24 * time.Hour,
	CleanupInterval: 30 * time.Minute,
	PrefetchDelay:   350 * time.Millisecond,
}

var APIConfig = struct {
	WikiBaseURL    string
	WikiTimeout    time.Duration
	UserAgent      string
	AcceptLanguage string
}{
	WikiBaseURL:    "https://en.wikipedia.org",
	WikiTimeout:    10 * time.Second,
	UserAgent:      "IconDeck/1.0 (+https://github.com/kapu/icondeck)",
	AcceptLanguage: "en;q=0.9",
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 5,                // consecutive failures before OPEN
	ResetTimeout:     30 * time.Second, // wait before HALF_OPEN probe
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
	KeyPrefix    string
}{
	ReadyTimeout: 5 * time.Second,
	KeyPrefix:    "icondeck:image:",
}

var ExportConfig = struct {
	FileName string
	Header   []string
}{
	FileName: "kept_personalities.csv",
	Header:   []string{"ID", "Name", "Field", "Bio", "Wiki Link", "Kept At"},
}

var StringLimits = struct {
	CardBio      int
	KeptListName int
	ImageURL     int
}{
	CardBio:      220,
	KeptListName: 32,
	ImageURL:     60,
}
