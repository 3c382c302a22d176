package types

type ServiceMode string

// Standalone - session client driven through the control HTTP API, in-memory state only
// Agent - adds the RabbitMQ location feed, RabbitMQ state events and postgres route history
const (
	StandaloneMode ServiceMode = "standalone"
	AgentMode      ServiceMode = "agent"
)

func (m ServiceMode) Valid() bool {
	return m == StandaloneMode || m == AgentMode
}
