package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	TTL              time.Duration `envconfig:"CONVERSATION_TTL" default:"30m"`
	InterestWindow   int           `envconfig:"CONVERSATION_INTEREST_WINDOW" default:"5"`
	InterestMinTurns int           `envconfig:"CONVERSATION_INTEREST_MIN_TURNS" default:"3"`
}

type OracleModelConfig struct {
	Model          string        `envconfig:"ORACLE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens      int           `envconfig:"ORACLE_MAX_TOKENS" default:"2000"`
	Temperature    float32       `envconfig:"ORACLE_TEMPERATURE" default:"0.2"`
	ThinkingBudget int32         `envconfig:"ORACLE_THINKING_BUDGET" default:"0"`
	Timeout        time.Duration `envconfig:"ORACLE_TIMEOUT" default:"30s"`
}

type PersonaConfig struct {
	CompanyName string `envconfig:"AGENT_COMPANY_NAME" default:"Premium Properties"`
	AgentName   string `envconfig:"AGENT_NAME" default:"Rachel"`
}
