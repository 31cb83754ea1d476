package hydra_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudgen/pkg/api"
	"github.com/goliatone/go-crudgen/pkg/hydra"
)

const documentationBody = `{
  "@id": "/docs.jsonld",
  "hydra:title": "Library API",
  "hydra:supportedClass": [
    {
      "@id": "http://schema.org/Book",
      "@type": "hydra:Class",
      "hydra:title": "Book",
      "hydra:supportedProperty": [
        {
          "@type": "hydra:SupportedProperty",
          "hydra:property": {
            "@id": "http://schema.org/name",
            "rdfs:range": "http://www.w3.org/2001/XMLSchema#string"
          },
          "hydra:title": "name",
          "hydra:required": true,
          "hydra:readable": true,
          "hydra:writeable": true,
          "hydra:description": "The title of the book"
        },
        {
          "@type": "hydra:SupportedProperty",
          "hydra:property": {
            "@id": "http://schema.org/datePublished",
            "rdfs:range": [
              {"@id": "http://www.w3.org/2001/XMLSchema#dateTime"}
            ]
          },
          "hydra:title": "publicationDate",
          "hydra:readable": true,
          "hydra:writeable": true
        },
        {
          "@type": "hydra:SupportedProperty",
          "hydra:property": {
            "@id": "http://schema.org/author",
            "@type": "hydra:Link",
            "rdfs:range": "http://schema.org/Person",
            "owl:maxCardinality": 1
          },
          "hydra:title": "author",
          "hydra:readable": true,
          "hydra:writeable": true
        },
        {
          "@type": "hydra:SupportedProperty",
          "hydra:property": {
            "@id": "http://schema.org/isbn",
            "rdfs:range": "http://www.w3.org/2001/XMLSchema#string"
          },
          "hydra:title": "isbn",
          "owl:deprecated": true,
          "hydra:readable": true,
          "hydra:writeable": false
        }
      ]
    },
    {
      "@id": "#Entrypoint",
      "@type": "hydra:Class",
      "hydra:title": "The API entrypoint",
      "hydra:supportedProperty": [
        {
          "@type": "hydra:SupportedProperty",
          "hydra:property": {
            "@id": "#Entrypoint/book",
            "@type": "hydra:Link",
            "rdfs:range": [
              {"@id": "hydra:Collection"},
              {
                "owl:equivalentClass": {
                  "owl:onProperty": {"@id": "hydra:member"},
                  "owl:allValuesFrom": {"@id": "http://schema.org/Book"}
                }
              }
            ],
            "hydra:search": {
              "@type": "hydra:IriTemplate",
              "hydra:template": "/books{?name,order[name]}",
              "hydra:mapping": [
                {
                  "@type": "hydra:IriTemplateMapping",
                  "hydra:variable": "name",
                  "hydra:property": "name",
                  "hydra:required": false
                },
                {
                  "@type": "hydra:IriTemplateMapping",
                  "hydra:variable": "order[name]",
                  "hydra:property": "name",
                  "hydra:required": false
                }
              ]
            }
          },
          "hydra:title": "book"
        }
      ]
    }
  ]
}`

func newDocServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/ld+json")
		w.Header().Set("Link",
			fmt.Sprintf(`<%s/docs.jsonld>; rel="http://www.w3.org/ns/hydra/core#apiDocumentation"`, server.URL))
		fmt.Fprint(w, `{"@id":"/","book":"/books"}`)
	})
	mux.HandleFunc("/docs.jsonld", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/ld+json")
		fmt.Fprint(w, documentationBody)
	})
	mux.HandleFunc("/contexts/Book", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/ld+json")
		fmt.Fprint(w, `{"@context":{
			"name": "http://schema.org/name",
			"condition": {"@id": "http://schema.org/itemCondition", "enum": ["new", "used"], "type": "string", "default": "new"}
		}}`)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestParseDocumentation(t *testing.T) {
	server := newDocServer(t)
	client := hydra.NewClient()

	parsed, err := client.ParseDocumentation(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("ParseDocumentation() returned error: %v", err)
	}

	if parsed.Title != "Library API" {
		t.Errorf("api title = %q, want Library API", parsed.Title)
	}
	if len(parsed.Resources) != 1 {
		t.Fatalf("resources = %d, want 1", len(parsed.Resources))
	}

	book := parsed.Resources[0]
	if book.Name != "book" || book.Title != "Book" {
		t.Errorf("resource identity = %q/%q, want book/Book", book.Name, book.Title)
	}
	if want := server.URL + "/books"; book.URL != want {
		t.Errorf("resource url = %q, want %q", book.URL, want)
	}

	if len(book.Fields) != 4 {
		t.Fatalf("fields = %d, want 4", len(book.Fields))
	}
	name := book.Fields[0]
	if name.Name != "name" || !name.Required || name.Range != "http://www.w3.org/2001/XMLSchema#string" {
		t.Errorf("name field parsed as %+v", name)
	}
	if name.Description != "The title of the book" {
		t.Errorf("name description = %q", name.Description)
	}

	published := book.Fields[1]
	if published.Range != "http://www.w3.org/2001/XMLSchema#dateTime" || published.Type != "dateTime" {
		t.Errorf("publicationDate parsed as range %q type %q", published.Range, published.Type)
	}

	author := book.Fields[2]
	if !author.Reference || author.Range != "http://schema.org/Person" || author.MaxCardinality != 1 {
		t.Errorf("author parsed as %+v, want a to-one reference to Person", author)
	}

	isbn := book.Fields[3]
	if !isbn.Deprecated {
		t.Errorf("isbn not marked deprecated")
	}
	if len(book.WritableFields) != 3 {
		t.Errorf("writable fields = %d, want 3 (isbn is read only)", len(book.WritableFields))
	}
	if len(book.ReadableFields) != 4 {
		t.Errorf("readable fields = %d, want 4", len(book.ReadableFields))
	}

	wantParams := []api.Parameter{
		{Variable: "name", Name: "name", Range: "http://www.w3.org/2001/XMLSchema#string", Type: "string"},
		{Variable: "order[name]", Name: "name", Range: "http://www.w3.org/2001/XMLSchema#string", Type: "string"},
	}
	if diff := cmp.Diff(wantParams, book.Parameters); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocumentation_MissingLinkHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := hydra.NewClient()
	if _, err := client.ParseDocumentation(context.Background(), server.URL); err == nil {
		t.Fatalf("expected an error for an entrypoint without a documentation link")
	}
}

func TestFetchContext(t *testing.T) {
	server := newDocServer(t)
	client := hydra.NewClient()

	entries, err := client.FetchContext(context.Background(), server.URL+"/", api.Resource{Title: "Book"})
	if err != nil {
		t.Fatalf("FetchContext() returned error: %v", err)
	}

	entry, ok := entries["condition"]
	if !ok {
		t.Fatalf("condition entry missing from context: %v", entries)
	}
	want := api.ContextEntry{Enum: []any{"new", "used"}, Type: "string", Default: "new"}
	if diff := cmp.Diff(want, entry); diff != "" {
		t.Errorf("context entry mismatch (-want +got):\n%s", diff)
	}

	if _, ok := entries["name"]; ok {
		t.Errorf("plain string mapping produced a context entry")
	}
}

func TestClient_Auth(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"@context":{}}`)
	}))
	defer server.Close()

	basic := hydra.NewClient(hydra.WithBasicAuth("admin", "secret"))
	if _, err := basic.FetchContext(context.Background(), server.URL, api.Resource{Title: "Book"}); err != nil {
		t.Fatalf("FetchContext() returned error: %v", err)
	}
	if authHeader != "Basic YWRtaW46c2VjcmV0" {
		t.Errorf("basic auth header = %q", authHeader)
	}

	bearer := hydra.NewClient(hydra.WithBearerToken("tok123"))
	if _, err := bearer.FetchContext(context.Background(), server.URL, api.Resource{Title: "Book"}); err != nil {
		t.Fatalf("FetchContext() returned error: %v", err)
	}
	if authHeader != "Bearer tok123" {
		t.Errorf("bearer auth header = %q", authHeader)
	}
}
