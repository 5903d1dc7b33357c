package domain

// Event topics published on the in-process bus.
const (
	TopicUserRegistered = "user:registered"
	TopicUserApproved   = "user:approved"
	TopicUserRejected   = "user:rejected"
)
