package cmd

import "time"

// Config carries everything the process needs at startup. Values come from
// the environment, see main for the variable names.
type Config struct {
	HTTPPort     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSslMode    string
	WebhookToken string

	// TransferPendingTimeout is how long a transfer leg may stay pending
	// before the recovery job reverses it.
	TransferPendingTimeout time.Duration

	// DisputeWindow bounds how long after delivery a buyer can open a dispute.
	DisputeWindow time.Duration
}
