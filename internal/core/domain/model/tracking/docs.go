// Package tracking provides the DeliveryTracking aggregate: per-order delivery
// stage, location history, and delivery attempts. Tracking carries no monetary
// consequence; it feeds the order lifecycle but never touches wallets.
//
// The delivery stage moves monotonically forward along the canonical sequence
// defined in stage.go. Skipping forward is allowed, regression is rejected, and
// failed delivery attempts are recorded without moving the stage.
package tracking
