package models

import (
	"time"

	"github.com/google/uuid"
)

// Usuario representa um usuário do sistema
type Usuario struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required,min=2,max=80"`
	Email     string    `json:"email" db:"email" binding:"required,email"`
	SenhaHash string    `json:"-" db:"senha_hash"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// UsuarioRegistro representa os dados para cadastro de um novo usuário
type UsuarioRegistro struct {
	Name     string `json:"name" binding:"required,min=2,max=80"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// UsuarioLogin representa as credenciais de login
type UsuarioLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UsuarioSimple é a projeção pública do usuário (sem dados sensíveis)
type UsuarioSimple struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// AuthResponse representa a resposta de signin/signup
type AuthResponse struct {
	User        UsuarioSimple `json:"user"`
	AccessToken string        `json:"access_token"`
}

// ToSimple converte Usuario para a projeção pública
func (u *Usuario) ToSimple() UsuarioSimple {
	return UsuarioSimple{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
