package vehicle

type CreatedEvent struct {
	Result Vehicle
}

type UpdatedEvent struct {
	Result Vehicle
}

type DeletedEvent struct {
	Result Vehicle
}
