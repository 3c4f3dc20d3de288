package protocol

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeCreateRoom MessageType = "createRoom"
	MessageTypeJoinRoom   MessageType = "joinRoom"
	MessageTypeLeaveRoom  MessageType = "leaveRoom"
	MessageTypeStartGame  MessageType = "startGame"
	MessageTypePlaceBet   MessageType = "placeBet"
	MessageTypeHit        MessageType = "hit"
	MessageTypeStand      MessageType = "stand"
	MessageTypeDouble     MessageType = "double"

	// Server to client messages
	MessageTypeConnected   MessageType = "connected"
	MessageTypeRoomCreated MessageType = "roomCreated"
	MessageTypeRoomUpdated MessageType = "roomUpdated"
	MessageTypeRoomLeft    MessageType = "roomLeft"
	MessageTypeJoinError   MessageType = "joinError"
	MessageTypeGameStarted MessageType = "gameStarted"
	MessageTypeGameError   MessageType = "gameError"
	MessageTypeBetPlaced   MessageType = "betPlaced"
	MessageTypeCardDrawn   MessageType = "cardDrawn"
	MessageTypePlayerStood MessageType = "playerStood"
	MessageTypeDoubleDown  MessageType = "doubleDown"
	MessageTypeTurnChanged MessageType = "turnChanged"
	MessageTypeGameEnded   MessageType = "gameEnded"
	MessageTypeError       MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// IsClientMessage reports whether clients may send this type
func (mt MessageType) IsClientMessage() bool {
	switch mt {
	case MessageTypeCreateRoom, MessageTypeJoinRoom, MessageTypeLeaveRoom, MessageTypeStartGame,
		MessageTypePlaceBet, MessageTypeHit, MessageTypeStand, MessageTypeDouble:
		return true
	}
	return false
}

// Error codes carried in ErrorData
const (
	CodeRoomNotFound        = "room_not_found"
	CodeRoomFull            = "room_full"
	CodeGameInProgress      = "game_in_progress"
	CodeInsufficientPlayers = "insufficient_players"
	CodeNotHost             = "not_host"
	CodeInvalidMessage      = "invalid_message"
	CodeUnknownMessageType  = "unknown_message_type"
	CodeInternal            = "internal_error"
)
