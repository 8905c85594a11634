package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := StartWashRequest{
		VehicleID:  "  veh-1  ",
		BranchID:   " br-1 ",
		OperatorID: "op-1\n",
		WashType:   " premium ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "veh-1", req.VehicleID)
	assert.Equal(t, "br-1", req.BranchID)
	assert.Equal(t, "op-1", req.OperatorID)
	assert.Equal(t, "premium", req.WashType)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := StartServiceRequest{
		VehicleID:   "veh-1",
		Description: "noise <script>alert('x')</script> from the front axle",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Description, "&lt;script&gt;")
	assert.NotContains(t, req.Description, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	customer := "  c1  "
	req := StartWashRequest{CustomerID: &customer}
	SanitizeStruct(&req)

	assert.Equal(t, "c1", *req.CustomerID)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	mileage := 42000
	req := StartServiceRequest{VehicleID: "veh-1", Mileage: &mileage}
	SanitizeStruct(&req)

	assert.Nil(t, req.CustomerID)
	assert.Equal(t, 42000, *req.Mileage)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"veh-001",
		"OP_002",
		"a.b.c",
		"simple123",
		"did:example:123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"veh 001",     // space
		"veh<001>",    // angle brackets
		"veh;DROP",    // semicolon
		"",            // empty
		"hello world", // space
		"veh\n001",    // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestBinding_StartRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     StartWashRequest
		wantErr bool
	}{
		{"empty request passes binding", StartWashRequest{}, false},
		{"valid ids", StartWashRequest{VehicleID: "veh-1", BranchID: "br-1", OperatorID: "op-1", WashType: "premium"}, false},
		{"unsafe operator id", StartWashRequest{OperatorID: "op-1; DROP TABLE"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBinding_PayoutAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"4.5", false},
		{"10.000000", false},
		{"0", true},
		{"-1", true},
		{"1.0000001", true},
		{"ten", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&PayoutRequest{Amount: tt.amount})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
