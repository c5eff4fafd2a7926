package petstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers served by the router.
type ApiHandleFunctions struct {
	// Routes for the pet resource
	PetAPI PetAPI
	// Health and metrics endpoints
	OperationalAPI OperationalAPI
}

// NewRouter returns a new router with recovery installed.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine. Middleware must
// be installed on the engine before calling it.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	// Match on the escaped path so a name containing %2F stays one segment.
	router.UseRawPath = true
	router.UnescapePathValues = true
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			continue
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"AddPet",
			http.MethodPost,
			"/api/pets",
			handleFunctions.PetAPI.AddPet,
		},
		{
			"FindPets",
			http.MethodGet,
			"/api/pets",
			handleFunctions.PetAPI.FindPets,
		},
		{
			"ClearPets",
			http.MethodDelete,
			"/api/pets",
			handleFunctions.PetAPI.ClearPets,
		},
		{
			"GetPetByName",
			http.MethodGet,
			"/api/pets/:name",
			handleFunctions.PetAPI.GetPetByName,
		},
		{
			"UpdatePet",
			http.MethodPut,
			"/api/pets/:name",
			handleFunctions.PetAPI.UpdatePet,
		},
		{
			"DeletePet",
			http.MethodDelete,
			"/api/pets/:name",
			handleFunctions.PetAPI.DeletePet,
		},
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			handleFunctions.OperationalAPI.Healthz,
		},
		{
			"Metrics",
			http.MethodGet,
			"/metrics",
			handleFunctions.OperationalAPI.metricsHandler(),
		},
	}
}
