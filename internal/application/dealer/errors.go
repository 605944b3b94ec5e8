package dealer

import (
	"fmt"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
)

// PermissionError reports that the caller's role may not perform the
// operation. It is never retried and maps to a permission-denied response at
// the adapter.
type PermissionError struct {
	Op   Operation
	Role user.Role
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("role %s is not permitted to perform %s", e.Role, e.Op)
}
