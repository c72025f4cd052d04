package commands

// RecoverPendingTransfersCommand represents a request to finalize or reverse
// transfer legs stranded between saga phases. Carries no parameters; the
// pending timeout is handler configuration.
type RecoverPendingTransfersCommand struct{}

// NewRecoverPendingTransfersCommand creates a recovery sweep command.
func NewRecoverPendingTransfersCommand() RecoverPendingTransfersCommand {
	return RecoverPendingTransfersCommand{}
}
