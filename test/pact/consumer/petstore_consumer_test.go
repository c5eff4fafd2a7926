//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-pet-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type petPayload struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Price int64  `json:"price"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestPetPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	requestPet := petPayload{Name: pacttest.ExistingPetName, Type: "dog", Color: "white", Price: 1000}
	petBodyMatcher := matchers.Map{
		"name":  matchers.S(requestPet.Name),
		"type":  matchers.Like(requestPet.Type),
		"color": matchers.Like(requestPet.Color),
		"price": matchers.Like(requestPet.Price),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	notFoundProblem := matchers.Map{
		"type":   matchers.S("/problems/not-found"),
		"title":  matchers.S("Resource Not Found"),
		"status": matchers.Like(http.StatusNotFound),
	}

	pact.AddInteraction().
		Given(pacttest.StatePetsBaseline).
		UponReceiving("a request to add a pet").
		WithRequest("POST", "/api/pets", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(petBodyMatcher)
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.Header("Location", matchers.S("/api/pets/"+pacttest.ExistingPetName))
			b.JSONBody(petBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StatePetExists).
		UponReceiving("a request to fetch an existing pet").
		WithRequest("GET", "/api/pets/"+pacttest.ExistingPetName).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(petBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StatePetMissing).
		UponReceiving("a request for a missing pet").
		WithRequest("GET", "/api/pets/"+pacttest.MissingPetName).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(notFoundProblem)
		})

	pact.AddInteraction().
		Given(pacttest.StatePetsSearch).
		UponReceiving("a request to find dogs").
		WithRequest("GET", "/api/pets", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("type", matchers.S("dog"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(matchers.Map{
				"name":  matchers.Like(pacttest.SearchPetName),
				"type":  matchers.S("dog"),
				"color": matchers.Like("white"),
				"price": matchers.Like(5000),
			}, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StatePetExists).
		UponReceiving("a request to replace an existing pet").
		WithRequest("PUT", "/api/pets/"+pacttest.ExistingPetName, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"name":  matchers.S(pacttest.ExistingPetName),
				"type":  matchers.S("dog"),
				"color": matchers.S("black"),
				"price": matchers.Like(2000),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"name":  matchers.S(pacttest.ExistingPetName),
				"type":  matchers.S("dog"),
				"color": matchers.S("black"),
				"price": matchers.Like(2000),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StatePetExists).
		UponReceiving("a request to delete an existing pet").
		WithRequest("DELETE", "/api/pets/"+pacttest.ExistingPetName).
		WillRespondWith(http.StatusNoContent)

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPetClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.AddPet(ctx, requestPet)
		if err != nil {
			return fmt.Errorf("add pet: %w", err)
		}
		if created == nil || created.Name != requestPet.Name {
			return fmt.Errorf("expected created pet %q, got %+v", requestPet.Name, created)
		}

		fetched, err := client.GetPet(ctx, pacttest.ExistingPetName)
		if err != nil {
			return fmt.Errorf("get pet: %w", err)
		}
		if fetched == nil || fetched.Name != pacttest.ExistingPetName {
			return fmt.Errorf("expected pet %q, got %+v", pacttest.ExistingPetName, fetched)
		}

		if _, err := client.GetPet(ctx, pacttest.MissingPetName); err == nil {
			return fmt.Errorf("expected 404 for pet %q", pacttest.MissingPetName)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		dogs, err := client.FindPets(ctx, url.Values{"type": {"dog"}})
		if err != nil {
			return fmt.Errorf("find pets: %w", err)
		}
		if len(dogs) == 0 || dogs[0].Type != "dog" {
			return fmt.Errorf("expected dogs, got %+v", dogs)
		}

		replaced, err := client.ReplacePet(ctx, petPayload{Name: pacttest.ExistingPetName, Type: "dog", Color: "black", Price: 2000})
		if err != nil {
			return fmt.Errorf("replace pet: %w", err)
		}
		if replaced.Color != "black" {
			return fmt.Errorf("expected replaced color black, got %q", replaced.Color)
		}

		if err := client.DeletePet(ctx, pacttest.ExistingPetName); err != nil {
			return fmt.Errorf("delete pet: %w", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type petClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPetClient(config pactconsumer.MockServerConfig) *petClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &petClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *petClient) AddPet(ctx context.Context, pet petPayload) (*petPayload, error) {
	var created petPayload
	if err := c.do(ctx, http.MethodPost, "/api/pets", pet, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *petClient) GetPet(ctx context.Context, name string) (*petPayload, error) {
	var pet petPayload
	if err := c.do(ctx, http.MethodGet, "/api/pets/"+url.PathEscape(name), nil, &pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

func (c *petClient) FindPets(ctx context.Context, query url.Values) ([]petPayload, error) {
	var pets []petPayload
	if err := c.do(ctx, http.MethodGet, "/api/pets?"+query.Encode(), nil, &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

func (c *petClient) ReplacePet(ctx context.Context, pet petPayload) (*petPayload, error) {
	var replaced petPayload
	if err := c.do(ctx, http.MethodPut, "/api/pets/"+url.PathEscape(pet.Name), pet, &replaced); err != nil {
		return nil, err
	}
	return &replaced, nil
}

func (c *petClient) DeletePet(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/pets/"+url.PathEscape(name), nil, nil)
}

func (c *petClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
