package memory

import (
	"katalian_bank/internal/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)
