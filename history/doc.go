// Package history implements the message-history store: an in-memory,
// double-entry log of every relayed ciphertext message.
//
// Each accepted message is appended to two ordered logs, the sender's view
// of the conversation with the receiver and the receiver's view of the
// conversation with the sender. Both copies are identical in content and
// timestamp and occupy the same relative position. Messages are immutable
// and never evicted; reading a conversation is the sole recovery path for
// messages sent while the recipient was offline.
package history
