package types

const (
	ActionSessionConnect      = "session_connect"
	ActionSessionRegister     = "session_register_user"
	ActionSessionEmitLocation = "session_emit_location"
	ActionSessionStartTrip    = "session_start_trip"
	ActionSessionEndTrip      = "session_end_trip"
	ActionSessionRecover      = "session_recover"
	ActionSessionInbound      = "session_inbound"
	ActionSessionClose        = "session_close"
	ActionTripTimeout         = "session_trip_timeout"

	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
)
