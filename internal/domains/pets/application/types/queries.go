package types

// FindPetsInput narrows a listing. Nil fields leave that dimension unconstrained.
type FindPetsInput struct {
	Type      *string
	Color     *string
	PriceFrom *int64
	PriceTo   *int64
}

// PetIdentifier references a pet by its name.
type PetIdentifier struct {
	Name string
}
