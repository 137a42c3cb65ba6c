// Package openapi builds the OpenAPI 3.1 document served at /openapi.json.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Spec builds the API document. baseURL is the externally visible server
// URL, e.g. "https://api.campusconnect.example.com".
func Spec(baseURL, version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "CampusConnect API",
			Description: "Directory of colleges and scholarships with subscription-gated profile enhancements.",
			Version:     version,
		},
		Servers: openapi3.Servers{
			{URL: baseURL},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	components.SecuritySchemes = openapi3.SecuritySchemes{
		"bearerAuth": &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{
				Type:         "http",
				Scheme:       "bearer",
				BearerFormat: "JWT",
			},
		},
	}
	doc.Components = &components

	doc.Components.Schemas["ErrorResponse"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: openapi3.Schemas{
							"code":    {Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}},
							"message": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
							"context": {Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}},
						},
					},
				},
			},
		},
	}
	doc.Components.Schemas["TokenResponse"] = objectSchema(map[string]*openapi3.SchemaRef{
		"access_token": stringSchema(""),
		"token_type":   stringSchema(""),
		"expires_in":   intSchema("int64"),
	})
	doc.Components.Schemas["Institution"] = objectSchema(map[string]*openapi3.SchemaRef{
		"id":                idSchema(),
		"ipeds_id":          intSchema("int64"),
		"name":              stringSchema(""),
		"city":              stringSchema(""),
		"state":             stringSchema(""),
		"control_type":      stringSchema(""),
		"website":           stringSchema("uri"),
		"primary_image_url": stringSchema("uri"),
		"is_featured":       boolSchema(),
	})
	doc.Components.Schemas["Scholarship"] = objectSchema(map[string]*openapi3.SchemaRef{
		"id":                idSchema(),
		"title":             stringSchema(""),
		"organization":      stringSchema(""),
		"amount_min":        intSchema("int64"),
		"amount_max":        intSchema("int64"),
		"deadline":          stringSchema("date-time"),
		"status":            stringSchema(""),
		"primary_image_url": stringSchema("uri"),
		"views_count":       intSchema("int64"),
	})
	doc.Components.Schemas["Subscription"] = objectSchema(map[string]*openapi3.SchemaRef{
		"entity_type":          stringSchema(""),
		"entity_id":            intSchema("int64"),
		"plan_tier":            stringSchema(""),
		"status":               stringSchema(""),
		"cancel_at_period_end": boolSchema(),
		"trial_end":            stringSchema("date-time"),
		"current_period_end":   stringSchema("date-time"),
	})

	doc.Paths = openapi3.NewPaths()
	addPublicPaths(doc)
	addAuthPaths(doc)
	addAdminPaths(doc)
	addBillingPaths(doc)

	return doc
}

func addPublicPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/v1/institutions", &openapi3.PathItem{
		Get: op("listInstitutions", "List institutions",
			"Institutions ordered with priority states first. Filterable by state and featured flag.",
			nil, jsonResponse("200", "Institution list")),
	})
	doc.Paths.Set("/api/v1/institutions/{institutionID}", &openapi3.PathItem{
		Get: op("getInstitution", "Get an institution profile",
			"Public profile. Premium sections appear only while the institution's subscription grants them.",
			pathParam("institutionID"), jsonResponse("200", "Institution profile")),
	})
	doc.Paths.Set("/api/v1/scholarships", &openapi3.PathItem{
		Get: op("listScholarships", "List scholarships",
			"Scholarships ordered featured first, then newest.",
			nil, jsonResponse("200", "Scholarship list")),
	})
	doc.Paths.Set("/api/v1/scholarships/{scholarshipID}", &openapi3.PathItem{
		Get: op("getScholarship", "Get a scholarship profile",
			"Public profile. Each read increments the scholarship's view counter.",
			pathParam("scholarshipID"), jsonResponse("200", "Scholarship profile")),
	})
}

func addAuthPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/v1/admin/auth/login", &openapi3.PathItem{
		Post: op("login", "Log in",
			"Form-encoded username and password. Returns a bearer token.",
			nil, jsonResponse("200", "Token issued")),
	})
	doc.Paths.Set("/api/v1/admin/auth/register", &openapi3.PathItem{
		Post: op("register", "Register with an invitation code",
			"Claims a pending invitation code and creates the admin account bound to the invitation's entity.",
			nil, jsonResponse("201", "Account created, token issued")),
	})
	doc.Paths.Set("/api/v1/admin/auth/validate-invitation", &openapi3.PathItem{
		Post: op("validateInvitation", "Check an invitation code",
			"Reports whether a code is claimable and which entity it binds to.",
			nil, jsonResponse("200", "Validation result")),
	})
	doc.Paths.Set("/api/v1/admin/auth/me", &openapi3.PathItem{
		Get: secured(op("me", "Current account", "", nil, jsonResponse("200", "Account"))),
	})
	doc.Paths.Set("/api/v1/admin/auth/change-password", &openapi3.PathItem{
		Post: secured(op("changePassword", "Change password", "", nil, jsonResponse("200", "Password changed"))),
	})
}

func addAdminPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/v1/admin/profile", &openapi3.PathItem{
		Get: secured(op("getProfile", "Get own entity profile", "", nil, jsonResponse("200", "Profile"))),
		Put: secured(op("updateProfile", "Update own entity profile", "", nil, jsonResponse("200", "Updated profile"))),
	})
	doc.Paths.Set("/api/v1/admin/display-settings", &openapi3.PathItem{
		Get: secured(op("getDisplaySettings", "Get display settings", "", nil, jsonResponse("200", "Settings"))),
		Put: secured(op("updateDisplaySettings", "Update display settings",
			"Enabling premium sections requires an entitled subscription.",
			nil, jsonResponse("200", "Updated settings"))),
	})
	doc.Paths.Set("/api/v1/admin/extended-info", &openapi3.PathItem{
		Get: secured(op("getExtendedInfo", "Get extended profile info", "", nil, jsonResponse("200", "Extended info"))),
		Put: secured(op("updateExtendedInfo", "Update extended profile info",
			"Premium feature.", nil, jsonResponse("200", "Updated info"))),
	})
	doc.Paths.Set("/api/v1/admin/gallery", &openapi3.PathItem{
		Get:  secured(op("listGallery", "List gallery images", "", nil, jsonResponse("200", "Gallery"))),
		Post: secured(op("uploadImage", "Upload a gallery image", "Multipart form; premium feature.", nil, jsonResponse("201", "Image recorded"))),
	})
	doc.Paths.Set("/api/v1/admin/gallery/order", &openapi3.PathItem{
		Put: secured(op("reorderGallery", "Reorder gallery", "", nil, jsonResponse("200", "Reordered gallery"))),
	})
	doc.Paths.Set("/api/v1/admin/gallery/{imageID}", &openapi3.PathItem{
		Patch:  secured(op("updateCaption", "Update image caption", "", pathParam("imageID"), jsonResponse("200", "Caption updated"))),
		Delete: secured(op("deleteImage", "Delete an image", "", pathParam("imageID"), jsonResponse("200", "Image deleted"))),
	})
	doc.Paths.Set("/api/v1/admin/gallery/{imageID}/featured", &openapi3.PathItem{
		Put: secured(op("setFeaturedImage", "Mark image featured",
			"Also mirrors the image onto the entity's primary image.",
			pathParam("imageID"), jsonResponse("200", "Featured image set"))),
	})
	doc.Paths.Set("/api/v1/admin/videos", &openapi3.PathItem{
		Get:  secured(op("listVideos", "List videos", "", nil, jsonResponse("200", "Videos"))),
		Post: secured(op("createVideo", "Add a video", "Premium feature.", nil, jsonResponse("201", "Video recorded"))),
	})
	doc.Paths.Set("/api/v1/admin/videos/{videoID}", &openapi3.PathItem{
		Put:    secured(op("updateVideo", "Update a video", "", pathParam("videoID"), jsonResponse("200", "Video updated"))),
		Delete: secured(op("deleteVideo", "Delete a video", "", pathParam("videoID"), jsonResponse("200", "Video deleted"))),
	})
	doc.Paths.Set("/api/v1/admin/institutions", &openapi3.PathItem{
		Post: secured(op("createInstitution", "Create an institution", "Super admin only.", nil, jsonResponse("201", "Institution created"))),
	})
	doc.Paths.Set("/api/v1/admin/institutions/{institutionID}", &openapi3.PathItem{
		Put: secured(op("updateInstitution", "Update an institution", "Super admin only.", pathParam("institutionID"), jsonResponse("200", "Institution updated"))),
	})
	doc.Paths.Set("/api/v1/admin/scholarships", &openapi3.PathItem{
		Post: secured(op("createScholarship", "Create a scholarship", "Super admin only.", nil, jsonResponse("201", "Scholarship created"))),
	})
	doc.Paths.Set("/api/v1/admin/scholarships/{scholarshipID}", &openapi3.PathItem{
		Put: secured(op("updateScholarship", "Update a scholarship", "Super admin only.", pathParam("scholarshipID"), jsonResponse("200", "Scholarship updated"))),
	})
	doc.Paths.Set("/api/v1/admin/invitations", &openapi3.PathItem{
		Get:  secured(op("listInvitations", "List invitation codes", "Super admin only.", nil, jsonResponse("200", "Invitations"))),
		Post: secured(op("createInvitation", "Issue an invitation code", "Super admin only.", nil, jsonResponse("201", "Invitation issued"))),
	})
	doc.Paths.Set("/api/v1/admin/invitations/{code}", &openapi3.PathItem{
		Delete: secured(op("revokeInvitation", "Revoke a pending invitation", "Super admin only.", pathParam("code"), jsonResponse("200", "Invitation revoked"))),
	})
}

func addBillingPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/v1/admin/subscriptions/current", &openapi3.PathItem{
		Get: secured(op("currentSubscription", "Current subscription and access",
			"An entity with no subscription row is on the free plan.",
			nil, jsonResponse("200", "Subscription state"))),
	})
	doc.Paths.Set("/api/v1/admin/subscriptions/checkout", &openapi3.PathItem{
		Post: secured(op("startCheckout", "Start a hosted checkout session", "", nil, jsonResponse("200", "Checkout URL"))),
	})
	doc.Paths.Set("/api/v1/admin/subscriptions/portal", &openapi3.PathItem{
		Post: secured(op("openPortal", "Open the billing portal", "", nil, jsonResponse("200", "Portal URL"))),
	})
	doc.Paths.Set("/api/v1/admin/subscriptions/cancel", &openapi3.PathItem{
		Post: secured(op("cancelSubscription", "Cancel at period end", "", nil, jsonResponse("200", "Cancellation scheduled"))),
	})
	doc.Paths.Set("/api/v1/admin/subscriptions/resume", &openapi3.PathItem{
		Post: secured(op("resumeSubscription", "Resume a pending cancellation", "", nil, jsonResponse("200", "Subscription resumed"))),
	})
	doc.Paths.Set("/api/v1/webhooks/stripe", &openapi3.PathItem{
		Post: op("stripeWebhook", "Receive a Stripe webhook",
			"Signature-verified. Duplicate deliveries are acknowledged without reapplying.",
			nil, jsonResponse("200", "Event acknowledged")),
	})
}

func op(id, summary, description string, params openapi3.Parameters, responses *openapi3.Responses) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: id,
		Summary:     summary,
		Description: description,
		Parameters:  params,
		Responses:   responses,
	}
}

func secured(o *openapi3.Operation) *openapi3.Operation {
	o.Security = &openapi3.SecurityRequirements{{"bearerAuth": {}}}
	return o
}

func pathParam(name string) openapi3.Parameters {
	return openapi3.Parameters{
		&openapi3.ParameterRef{
			Value: &openapi3.Parameter{
				Name:     name,
				In:       "path",
				Required: true,
				Schema:   &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
			},
		},
	}
}

func jsonResponse(status, description string) *openapi3.Responses {
	responses := openapi3.NewResponses()
	desc := description
	responses.Set(status, &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &desc,
			Content:     openapi3.NewContentWithJSONSchema(&openapi3.Schema{Type: &openapi3.Types{"object"}}),
		},
	})
	errDesc := "Error"
	responses.Set("default", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &errDesc,
			Content: openapi3.NewContentWithJSONSchemaRef(
				&openapi3.SchemaRef{Ref: "#/components/schemas/ErrorResponse"}),
		},
	})
	return responses
}

func objectSchema(props map[string]*openapi3.SchemaRef) *openapi3.SchemaRef {
	schemas := openapi3.Schemas{}
	for name, ref := range props {
		schemas[name] = ref
	}
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:       &openapi3.Types{"object"},
			Properties: schemas,
		},
	}
}

func stringSchema(format string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: format}}
}

func intSchema(format string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: format}}
}

func boolSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}}
}

func idSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}}
}
