package proto

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/cheatsync/internal/models"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type PingResponse struct {
	Status string `json:"status"`
}

// SignInResponse answers both SignInAnonymously and RefreshToken.
type SignInResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type UpdateSheetRequest struct {
	ID    string            `json:"id"`
	Patch models.SheetPatch `json:"patch"`
}

type SheetList struct {
	Sheets []models.Sheet `json:"sheets"`
}

type CategoryList struct {
	Categories []models.CustomCategory `json:"categories"`
}

// Encode converts v to a Struct through its JSON form. v must marshal to a
// JSON object.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return s, nil
}

// Decode fills v from the JSON form of s.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		return fmt.Errorf("decode %T: empty message", v)
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
