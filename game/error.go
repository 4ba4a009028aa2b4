package game

const (
	ErrorNetworkTimeout   = "Error: Network timed out."
	ErrorInternalPanic    = "Error: An internal error occurred while processing your connection."
	ErrorAlreadyConnected = "Error: You are already connected to this server."
	ErrorBanned           = "You are temporarily banned from this server.\nTime remaining: %s"
	ErrorPacketSpam       = "Error: Too many packets sent."
)
