package handler

import (
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/service"
)

func field(req *structpb.Struct, name string) (*structpb.Value, bool) {
	if req == nil {
		return nil, false
	}
	v, ok := req.GetFields()[name]
	if !ok {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

// stringField returns the string at name, or "" when absent.
func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := field(req, name)
	if !ok {
		return "", nil
	}
	s, isString := v.GetKind().(*structpb.Value_StringValue)
	if !isString {
		return "", apierrors.NewErrInvalidArgument(fmt.Sprintf("%s must be a string", name))
	}
	return s.StringValue, nil
}

func requiredString(req *structpb.Struct, name string) (string, error) {
	s, err := stringField(req, name)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", apierrors.NewErrInvalidArgument(fmt.Sprintf("%s is required", name))
	}
	return s, nil
}

// optionalString returns nil when name is absent or null.
func optionalString(req *structpb.Struct, name string) (*string, error) {
	if _, ok := field(req, name); !ok {
		return nil, nil
	}
	s, err := stringField(req, name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// idField returns the integral number at name and whether it was present.
func idField(req *structpb.Struct, name string) (int64, bool, error) {
	v, ok := field(req, name)
	if !ok {
		return 0, false, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue <= 0 || n.NumberValue >= math.MaxInt64 {
		return 0, true, apierrors.NewErrInvalidArgument(fmt.Sprintf("%s must be a positive integer", name))
	}
	return int64(n.NumberValue), true, nil
}

func requiredID(req *structpb.Struct, name string) (int64, error) {
	id, ok, err := idField(req, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apierrors.NewErrInvalidArgument(fmt.Sprintf("%s is required", name))
	}
	return id, nil
}

func emptyResponse() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringList(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func summaryMap(u service.UserSummary) map[string]any {
	return map[string]any{
		"id":           u.ID,
		"account_id":   u.AccountID,
		"account_name": u.AccountName,
		"username":     u.Username,
		"first_name":   stringOrNil(u.FirstName),
		"last_name":    stringOrNil(u.LastName),
		"roles":        stringList(u.Roles),
	}
}

func sessionResponse(s service.Session) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"access_token":  s.AccessToken,
		"refresh_token": s.RefreshToken,
		"user":          summaryMap(s.User),
	})
}

func tokensResponse(t service.Tokens) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"access_token":  t.AccessToken,
		"refresh_token": t.RefreshToken,
	})
}

func userMap(u model.User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"account_id":  u.AccountID,
		"username":    u.Username,
		"first_name":  stringOrNil(u.FirstName),
		"last_name":   stringOrNil(u.LastName),
		"is_verified": u.IsVerified,
		"created_at":  u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func emailMap(e model.EmailAddress) map[string]any {
	return map[string]any{
		"id":          e.ID,
		"email":       e.Email,
		"is_primary":  e.IsPrimary,
		"is_verified": e.IsVerified,
	}
}
