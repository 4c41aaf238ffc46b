//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/micromarket/storefront/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	"github.com/micromarket/storefront/internal/backend"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newBackendClient(config pactconsumer.MockServerConfig, token string) *backend.Client {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	httpClient := &http.Client{
		Transport: &http.Transport{TLSClientConfig: config.TLSConfig},
		Timeout:   10 * time.Second,
	}
	return backend.New(
		fmt.Sprintf("http://%s:%d", host, config.Port),
		staticToken(token),
		backend.WithHTTPClient(httpClient),
	)
}

func TestStorefrontAuthContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateUserRegistered).
		UponReceiving("a login request with valid credentials").
		WithRequest("POST", "/auth/login", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"email":    matchers.S(pacttest.UserEmail),
				"password": matchers.S(pacttest.UserPassword),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"token": matchers.Like(pacttest.SessionToken)})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a registration request for a new user").
		WithRequest("POST", "/auth/register", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"name":     matchers.Like("New Shopper"),
				"email":    matchers.Like("new@example.com"),
				"password": matchers.Like("hunter22"),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"message": matchers.Like("registered")})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newBackendClient(config, "")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		token, err := client.Login(ctx, pacttest.UserEmail, pacttest.UserPassword)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if token == "" {
			return fmt.Errorf("expected a session token")
		}

		if err := client.Register(ctx, backend.Registration{
			Name:     "New Shopper",
			Email:    "new@example.com",
			Password: "hunter22",
		}); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestStorefrontCatalogContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	productMatcher := matchers.Map{
		"_id":         matchers.Like(pacttest.ExistingProductID),
		"title":       matchers.Like("Walnut Chair"),
		"price":       matchers.Like(49.5),
		"description": matchers.Like("A sturdy walnut chair"),
		"image":       matchers.Like("https://cdn.micromarket.example/p1.png"),
	}

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a paged catalog request").
		WithRequest("GET", "/products", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("search", matchers.S("chair"))
			b.Query("page", matchers.S("1"))
			b.Query("limit", matchers.S("8"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"data":  matchers.EachLike(productMatcher, 1),
				"pages": matchers.Like(3),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a product detail request").
		WithRequest("GET", "/products/"+pacttest.ExistingProductID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"data": productMatcher})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newBackendClient(config, "")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		page, err := client.ListProducts(ctx, "chair", 1, 8)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if len(page.Items) == 0 || page.Pages != 3 {
			return fmt.Errorf("unexpected catalog page: %+v", page)
		}

		product, err := client.GetProduct(ctx, pacttest.ExistingProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if product.ID != pacttest.ExistingProductID {
			return fmt.Errorf("expected product %s, got %+v", pacttest.ExistingProductID, product)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestStorefrontFavoritesContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	bearer := matchers.S("Bearer " + pacttest.SessionToken)

	pact.AddInteraction().
		Given(pacttest.StateUserHasFavorites).
		UponReceiving("a favorites list request with a session token").
		WithRequest("GET", "/products/favorites", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", bearer)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"data": matchers.EachLike(matchers.Map{
					"_id":   matchers.Like(pacttest.ExistingProductID),
					"title": matchers.Like("Walnut Chair"),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateUserHasFavorites).
		UponReceiving("a favorite toggle for an unfavorited product").
		WithRequest("POST", "/products/"+pacttest.UnfavoritedID+"/favorite", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", bearer)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"isFavorite": matchers.Like(true)})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newBackendClient(config, pacttest.SessionToken)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ids, err := client.ListFavoriteIDs(ctx)
		if err != nil {
			return fmt.Errorf("list favorites: %w", err)
		}
		if len(ids) == 0 {
			return fmt.Errorf("expected at least one favorite")
		}

		isFav, err := client.ToggleFavorite(ctx, pacttest.UnfavoritedID)
		if err != nil {
			return fmt.Errorf("toggle favorite: %w", err)
		}
		if !isFav {
			return fmt.Errorf("expected toggle to report favorited")
		}
		return nil
	})
	require.NoError(t, err)
}
