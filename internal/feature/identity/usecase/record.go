package usecase

import (
	"strings"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
)

const recordFields = 4

// ParseRecord は次の形式のインポートレコードを1件解析します。
//
//	fullName;email;salt:hash;phone
//
// fullName以外のフィールドは空でも構いません。
func ParseRecord(record string) (entity.Request, error) {
	fields := strings.Split(strings.TrimSpace(record), ";")
	if len(fields) < recordFields {
		return entity.Request{}, domain.Validationf("record must have %d fields separated by ';', got %d", recordFields, len(fields))
	}

	first, last, err := entity.ParseFullName(fields[0])
	if err != nil {
		return entity.Request{}, err
	}

	req := entity.Request{
		Method:    entity.ViaRestore,
		FirstName: first,
		LastName:  last,
		Email:     strings.TrimSpace(fields[1]),
		Phone:     strings.TrimSpace(fields[3]),
	}
	if credential := strings.TrimSpace(fields[2]); credential != "" {
		salt, hash, ok := strings.Cut(credential, ":")
		if !ok {
			return entity.Request{}, domain.Validationf("credential field must be salt:hash, got %q", credential)
		}
		req.Salt = strings.TrimSpace(salt)
		req.PasswordHash = strings.TrimSpace(hash)
	}
	return req, nil
}
