package mapper

import (
	"encoding/json"
	"math/big"

	petstypes "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/domain"
)

// MutationPet captures inbound payloads for create/update flows while preserving field presence.
type MutationPet struct {
	Name  *string `json:"name,omitempty"`
	Type  *string `json:"type,omitempty"`
	Color *string `json:"color,omitempty"`
	Price *int64  `json:"price,omitempty"`
}

// Pet is the HTTP representation of a pet.
type Pet struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Price int64  `json:"price"`
}

// DecodeCreate validates and decodes a POST body. Every field is required.
func DecodeCreate(body []byte) (MutationPet, error) {
	return decode(createSchema, body)
}

// DecodeUpdate validates and decodes a PUT body. The name is optional there
// because the path identifies the pet.
func DecodeUpdate(body []byte) (MutationPet, error) {
	return decode(updateSchema, body)
}

func decode(schema string, body []byte) (MutationPet, error) {
	if err := validate(schema, body); err != nil {
		return MutationPet{}, err
	}
	var wire struct {
		Name  *string      `json:"name"`
		Type  *string      `json:"type"`
		Color *string      `json:"color"`
		Price *json.Number `json:"price"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return MutationPet{}, &PayloadError{Fields: map[string]string{"body": err.Error()}}
	}
	payload := MutationPet{Name: wire.Name, Type: wire.Type, Color: wire.Color}
	if wire.Price != nil {
		price, ok := integralInt64(*wire.Price)
		if !ok {
			return MutationPet{}, &PayloadError{Fields: map[string]string{"price": "must be an integer within the 64-bit range"}}
		}
		payload.Price = &price
	}
	return payload, nil
}

// integralInt64 accepts any JSON number with an integral value, so 1e3 and
// 1000.0 both yield 1000 as the schema's integer check allows.
func integralInt64(n json.Number) (int64, bool) {
	if v, err := n.Int64(); err == nil {
		return v, true
	}
	r, ok := new(big.Rat).SetString(n.String())
	if !ok || !r.IsInt() || !r.Num().IsInt64() {
		return 0, false
	}
	return r.Num().Int64(), true
}

// ToMutationInput converts a mutation payload into an application mutation input.
func ToMutationInput(model MutationPet) petstypes.PetMutationInput {
	return petstypes.PetMutationInput{
		Name:  model.Name,
		Type:  model.Type,
		Color: model.Color,
		Price: model.Price,
	}
}

// FromDomainPet maps a domain pet into a transport Pet.
func FromDomainPet(p *domain.Pet) Pet {
	if p == nil {
		return Pet{}
	}
	return Pet{Name: p.Name, Type: p.Type, Color: p.Color, Price: p.Price}
}

// FromProjection maps a projection into the transport Pet.
func FromProjection(p *petstypes.PetProjection) Pet {
	if p == nil {
		return Pet{}
	}
	return FromDomainPet(p.Entity)
}

// FromProjectionList maps projections preserving order. The result is never nil
// so an empty listing encodes as [].
func FromProjectionList(list []*petstypes.PetProjection) []Pet {
	result := make([]Pet, 0, len(list))
	for _, p := range list {
		if p == nil || p.Entity == nil {
			continue
		}
		result = append(result, FromProjection(p))
	}
	return result
}
