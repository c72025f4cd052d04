// Package dispute provides the Dispute aggregate for frozen-funds mediation.
// A dispute is opened by the buyer or vendor while an order is shipped or
// delivered; it blocks normal release and refund until a mediator resolves it
// by splitting the escrow between the two parties. Resolution conserves value:
// the amounts credited to buyer and vendor always sum to the escrow amount
// exactly.
package dispute
