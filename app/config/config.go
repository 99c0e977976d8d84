package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      Log      `yaml:"log"`
	DB       DB       `yaml:"db"`
	Telegram Telegram `yaml:"telegram"`
	OpenAI   OpenAI   `yaml:"openai"`
	Defaults Defaults `yaml:"defaults"`
	Reminder Reminder `yaml:"reminder"`
}

type Telegram struct {
	// Bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789" validate:"required"`
}

type OpenAI struct {
	// OpenAI-compatible base url, leave empty to disable the LLM parse stage
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1"`
	// OpenAI token, leave empty to disable the LLM parse stage
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX"`
	// Chat model used for utterance parsing
	Model string `yaml:"model" example:"gpt-4o-mini"`
	// Speech-to-text model used for voice messages
	TranscribeModel string `yaml:"transcribe_model" example:"whisper-1"`
}

// Defaults is the smart-defaults profile applied to every new conversation.
type Defaults struct {
	// Default start time for events without an explicit time
	Time string `yaml:"time" example:"09:00"`
	// Default event duration in minutes
	DurationMinutes int `yaml:"duration_minutes" example:"60"`
	// Preferred online meeting platform: google_meet, zoom, teams
	MeetingType string `yaml:"meeting_type" example:"google_meet"`
	// Start of working hours
	WorkStart string `yaml:"work_start" example:"09:00"`
	// End of working hours
	WorkEnd string `yaml:"work_end" example:"18:00"`
	// IANA time zone of the user
	TimeZone string `yaml:"time_zone" example:"Asia/Ho_Chi_Minh"`
}

type Reminder struct {
	// How far ahead of an event the reminder fires, in minutes
	WindowMinutes int `yaml:"window_minutes" example:"15"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type DB struct {
	// Directory holding the sqlite database
	Dir string `yaml:"dir" example:"data"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.DB.Dir == "" {
		result.DB.Dir = "data"
	}
	if result.OpenAI.Model == "" {
		result.OpenAI.Model = "gpt-4o-mini"
	}
	if result.OpenAI.TranscribeModel == "" {
		result.OpenAI.TranscribeModel = "whisper-1"
	}
	if result.Reminder.WindowMinutes <= 0 {
		result.Reminder.WindowMinutes = 15
	}
	ApplyDefaultProfile(&result.Defaults)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

// ApplyDefaultProfile fills the smart-defaults profile with sane values.
func ApplyDefaultProfile(d *Defaults) {
	if d.Time == "" {
		d.Time = "09:00"
	}
	if d.DurationMinutes <= 0 {
		d.DurationMinutes = 60
	}
	if d.MeetingType == "" {
		d.MeetingType = "google_meet"
	}
	if d.WorkStart == "" {
		d.WorkStart = "09:00"
	}
	if d.WorkEnd == "" {
		d.WorkEnd = "18:00"
	}
	if d.TimeZone == "" {
		d.TimeZone = "Asia/Ho_Chi_Minh"
	}
}
