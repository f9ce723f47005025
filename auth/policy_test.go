package auth

import (
	"errors"
	"testing"

	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

func TestDefaultPolicyBrowseIsPublic(t *testing.T) {
	p := DefaultPolicy()
	if !p.Public(CapBrowse) {
		t.Error("просмотр каталога должен быть публичным")
	}
	if p.Public(CapManageUsers) {
		t.Error("управление пользователями не должно быть публичным")
	}
}

func TestDefaultPolicyManageDocuments(t *testing.T) {
	p := DefaultPolicy()

	for _, role := range []string{model.RoleAdmin, model.RoleDirector, model.RoleSupervisor, model.RoleRevisor} {
		if err := p.Allows(CapManageDocuments, role); err != nil {
			t.Errorf("роль %q должна допускаться к документам: %v", role, err)
		}
	}
	if err := p.Allows(CapManageDocuments, model.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Errorf("роль user не должна допускаться к документам, получили %v", err)
	}
}

func TestDefaultPolicyAdminOnly(t *testing.T) {
	p := DefaultPolicy()

	for _, capability := range []Capability{CapManageCatalog, CapManageUsers} {
		if err := p.Allows(capability, model.RoleAdmin); err != nil {
			t.Errorf("админ должен допускаться к %q: %v", capability, err)
		}
		if err := p.Allows(capability, model.RoleDirector); !errors.Is(err, ErrForbidden) {
			t.Errorf("директор не должен допускаться к %q, получили %v", capability, err)
		}
	}
}

func TestPolicyUnknownCapabilityForbidden(t *testing.T) {
	p := DefaultPolicy()
	if err := p.Allows("unknown_capability", model.RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Errorf("неизвестная способность запрещена для всех, получили %v", err)
	}
}
