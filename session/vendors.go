package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"sareeapi/models"
	"sareeapi/services"
)

const MsgVendorFieldsRequired = "Vendor name and code are required."

func defaultVendors() []models.Vendor {
	return []models.Vendor{{ID: "default-1", Name: "Moushumi", Code: "Mou"}}
}

type VendorRegistry struct {
	mu      sync.RWMutex
	vendors []models.Vendor
}

func NewVendorRegistry() *VendorRegistry {
	return &VendorRegistry{vendors: defaultVendors()}
}

func (r *VendorRegistry) Add(in models.VendorIn) (models.Vendor, error) {
	name, code := strings.TrimSpace(in.Name), strings.TrimSpace(in.Code)
	if name == "" || code == "" {
		return models.Vendor{}, services.NewValidationError(MsgVendorFieldsRequired)
	}
	v := models.Vendor{ID: uuid.New().String(), Name: name, Code: code}
	r.mu.Lock()
	r.vendors = append(r.vendors, v)
	r.mu.Unlock()
	return v, nil
}

func (r *VendorRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, v := range r.vendors {
		if v.ID == id {
			r.vendors = append(r.vendors[:i:i], r.vendors[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrVendorNotFound, id)
}

func (r *VendorRegistry) List() []models.Vendor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Vendor, len(r.vendors))
	copy(out, r.vendors)
	return out
}
