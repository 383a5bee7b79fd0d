package domain

import (
	"testing"

	"hackledger/testutil"
)

func TestDomainStaysInfrastructureFree(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"pkg/domain is imported by every store and transport and must not depend back on internal/")
}
