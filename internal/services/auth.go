package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"entregas-api/internal/models"
	"entregas-api/pkg/database"
)

var (
	ErrEmailJaExiste        = errors.New("email já cadastrado")
	ErrCredenciaisInvalidas = errors.New("email e/ou senha inválido(s)")
	ErrUsuarioNaoEncontrado = errors.New("usuário não encontrado")
)

// AuthService gerencia operações de autenticação
type AuthService struct {
	db *database.PostgresClient
}

// NewAuthService cria uma nova instância do serviço de autenticação
func NewAuthService(db *database.PostgresClient) *AuthService {
	return &AuthService{db: db}
}

// RegistrarUsuario registra um novo usuário no sistema
func (s *AuthService) RegistrarUsuario(ctx context.Context, registro *models.UsuarioRegistro) (*models.Usuario, error) {
	// Verifica se o email já existe
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM usuarios WHERE email = $1)", registro.Email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar email: %w", err)
	}

	if exists {
		return nil, ErrEmailJaExiste
	}

	// Gera hash da senha
	senhaHash, err := bcrypt.GenerateFromPassword([]byte(registro.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar hash da senha: %w", err)
	}

	query := `
		INSERT INTO usuarios (name, email, senha_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, created_at, updated_at
	`

	usuario := &models.Usuario{}
	err = s.db.QueryRow(
		query,
		registro.Name,
		registro.Email,
		string(senhaHash),
	).Scan(
		&usuario.ID,
		&usuario.Name,
		&usuario.Email,
		&usuario.CreatedAt,
		&usuario.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("erro ao criar usuário: %w", err)
	}

	return usuario, nil
}

// Login autentica um usuário e retorna os dados
func (s *AuthService) Login(ctx context.Context, login *models.UsuarioLogin) (*models.Usuario, error) {
	query := `
		SELECT id, name, email, senha_hash, created_at, updated_at
		FROM usuarios
		WHERE email = $1
	`

	usuario := &models.Usuario{}
	err := s.db.QueryRow(query, login.Email).Scan(
		&usuario.ID,
		&usuario.Name,
		&usuario.Email,
		&usuario.SenhaHash,
		&usuario.CreatedAt,
		&usuario.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCredenciaisInvalidas
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}

	// Verifica a senha
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.SenhaHash), []byte(login.Password)); err != nil {
		return nil, ErrCredenciaisInvalidas
	}

	return usuario, nil
}

// BuscarUsuarioPorID busca um usuário pelo ID
func (s *AuthService) BuscarUsuarioPorID(ctx context.Context, usuarioID uuid.UUID) (*models.Usuario, error) {
	query := `
		SELECT id, name, email, created_at, updated_at
		FROM usuarios
		WHERE id = $1
	`

	usuario := &models.Usuario{}
	err := s.db.QueryRow(query, usuarioID).Scan(
		&usuario.ID,
		&usuario.Name,
		&usuario.Email,
		&usuario.CreatedAt,
		&usuario.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrUsuarioNaoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}

	return usuario, nil
}
