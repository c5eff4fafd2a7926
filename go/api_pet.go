package petstoreserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	pethttpmapper "github.com/Apurer/go-gin-pet-api/internal/domains/pets/adapters/http/mapper"
	petsapp "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application"
	petstypes "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
	petsports "github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
	apierrors "github.com/Apurer/go-gin-pet-api/internal/shared/errors"
)

// PetAPI wires HTTP transport with the pets bounded context service and workflows.
type PetAPI struct {
	service   petsports.Service
	workflows petsports.WorkflowOrchestrator
	responder *apierrors.ChainedResponder
}

// NewPetAPI creates a PetAPI backed by the provided service. A nil workflows
// orchestrator makes AddPet call the service directly.
func NewPetAPI(service petsports.Service, workflows petsports.WorkflowOrchestrator) PetAPI {
	return PetAPI{
		service:   service,
		workflows: workflows,
		responder: apierrors.NewChainedResponder("", mapPetError),
	}
}

// Post /api/pets
// Add a new pet to the store
func (api *PetAPI) AddPet(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	payload, err := pethttpmapper.DecodeCreate(body)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	input := petstypes.AddPetInput{PetMutationInput: pethttpmapper.ToMutationInput(payload)}
	saved, err := api.createPet(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, petsapp.ErrConflict) {
			respondProblem(c, apierrors.NewConflictProblem("pet", *payload.Name))
			return
		}
		api.responder.RespondError(c, err)
		return
	}
	c.Header("Location", "/api/pets/"+url.PathEscape(saved.Entity.Name))
	c.JSON(http.StatusCreated, pethttpmapper.FromProjection(saved))
}

func (api *PetAPI) createPet(ctx context.Context, input petstypes.AddPetInput) (*petstypes.PetProjection, error) {
	if api.workflows != nil {
		return api.workflows.CreatePet(ctx, input)
	}
	return api.service.AddPet(ctx, input)
}

// Get /api/pets
// Lists pets, narrowed by the optional type, color, priceFrom and priceTo query parameters
func (api *PetAPI) FindPets(c *gin.Context) {
	input, err := bindFindPetsInput(c.Request.URL.Query())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	result, err := api.service.FindPets(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjectionList(result))
}

// Get /api/pets/:name
// Find pet by name
func (api *PetAPI) GetPetByName(c *gin.Context) {
	name := c.Param("name")
	pet, err := api.service.GetByName(c.Request.Context(), petstypes.PetIdentifier{Name: name})
	if err != nil {
		api.respondLookupError(c, name, err)
		return
	}
	if !pet.Metadata.UpdatedAt.IsZero() {
		c.Header("Last-Modified", pet.Metadata.UpdatedAt.UTC().Format(http.TimeFormat))
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(pet))
}

// Put /api/pets/:name
// Replace an existing pet; the name in the path wins over any name in the body
func (api *PetAPI) UpdatePet(c *gin.Context) {
	name := c.Param("name")
	body, err := c.GetRawData()
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	payload, err := pethttpmapper.DecodeUpdate(body)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	input := petstypes.UpdatePetInput{
		PetIdentifier:    petstypes.PetIdentifier{Name: name},
		PetMutationInput: pethttpmapper.ToMutationInput(payload),
	}
	updated, err := api.service.UpdatePet(c.Request.Context(), input)
	if err != nil {
		api.respondLookupError(c, name, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(updated))
}

// Delete /api/pets/:name
// Deletes a pet; deleting an unknown pet succeeds
func (api *PetAPI) DeletePet(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), petstypes.PetIdentifier{Name: c.Param("name")}); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete /api/pets
// Removes every pet
func (api *PetAPI) ClearPets(c *gin.Context) {
	if err := api.service.Clear(c.Request.Context()); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *PetAPI) respondLookupError(c *gin.Context, name string, err error) {
	if errors.Is(err, petsports.ErrNotFound) {
		respondProblem(c, apierrors.NewNotFoundProblem("pet", name))
		return
	}
	api.responder.RespondError(c, err)
}

// bindFindPetsInput reads the filter query parameters. Empty type or color values
// count as absent.
func bindFindPetsInput(query url.Values) (petstypes.FindPetsInput, error) {
	var input petstypes.FindPetsInput
	if v := query.Get("type"); v != "" {
		input.Type = &v
	}
	if v := query.Get("color"); v != "" {
		input.Color = &v
	}
	fields := map[string]string{}
	for name, dest := range map[string]**int64{"priceFrom": &input.PriceFrom, "priceTo": &input.PriceTo} {
		// An empty bound is absent, like an empty type or color.
		if query.Get(name) == "" {
			continue
		}
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			fields[name] = "must be an integer"
		}
	}
	if len(fields) > 0 {
		return petstypes.FindPetsInput{}, apierrors.NewValidationProblem(fields)
	}
	return input, nil
}

func mapPetError(err error) (apierrors.ProblemDetail, bool) {
	var payloadErr *pethttpmapper.PayloadError
	switch {
	case errors.As(err, &payloadErr):
		return apierrors.NewValidationProblem(payloadErr.Fields).WithDetail(payloadErr.Error()), true
	case errors.Is(err, petsports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, petsapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, petsapp.ErrInvalidInput):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
