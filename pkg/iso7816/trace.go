package iso7816

// A Transaction is the atomic unit of communication defined in ISO 7816-3:
// one command APDU sent by the host, followed by one response APDU sent back
// by the card. A Trace is the chronological sequence of transactions that
// made up one logical operation, e.g. the SELECT, header probe and chunk
// reads of a single file retrieval.

// Transaction represents a completed command-response pair.
type Transaction struct {
	Command  *CommandAPDU
	Response *ResponseAPDU
}

// IsSuccess checks if the transaction ended with a successful status.
// It returns false if the response is missing.
func (t *Transaction) IsSuccess() bool {
	if t.Response == nil {
		return false
	}
	return t.Response.Status.IsSuccess()
}

// Trace is a sequence of transactions recorded during one logical operation.
type Trace []Transaction

// Last returns the final transaction of the trace, or nil if it is empty.
func (t Trace) Last() *Transaction {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// IsSuccess checks if the final transaction in the trace was successful,
// which determines whether the overall logical operation succeeded.
func (t Trace) IsSuccess() bool {
	last := t.Last()
	if last == nil {
		return false
	}
	return last.IsSuccess()
}
