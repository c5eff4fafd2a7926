package types

// PetMutationInput carries the fields of a create or replace request. Pointers
// preserve whether the caller supplied a field at all.
type PetMutationInput struct {
	Name  *string
	Type  *string
	Color *string
	Price *int64
}

// AddPetInput captures the request to add a new pet into the catalog.
type AddPetInput struct {
	PetMutationInput
}

// UpdatePetInput replaces the pet identified by Name with new state. The name
// inside PetMutationInput is ignored; the identifier is authoritative.
type UpdatePetInput struct {
	PetIdentifier
	PetMutationInput
}
