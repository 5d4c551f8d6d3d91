package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"entregas-api/internal/models"
	"entregas-api/pkg/database"
)

var ErrFamiliaNaoEncontrada = errors.New("família não encontrada")

// ordenacaoFamilias é a lista de campos de ordenação aceitos na listagem
var ordenacaoFamilias = map[string]string{
	"nome":       "f.nome",
	"created_at": "f.created_at",
}

const ordenacaoFamiliasPadrao = "f.nome ASC"

// FamiliasService gerencia operações relacionadas a famílias de produtos
type FamiliasService struct {
	db *database.PostgresClient
}

// NewFamiliasService cria uma nova instância do FamiliasService
func NewFamiliasService(db *database.PostgresClient) *FamiliasService {
	return &FamiliasService{db: db}
}

// montarFiltroFamilias traduz os filtros da listagem para condições SQL.
// Sem ?ativo= explícito a leitura pública mostra apenas registros ativos.
func montarFiltroFamilias(filtro models.FamiliaFiltro) *filtroSQL {
	f := &filtroSQL{}
	if filtro.Nome != "" {
		f.Add("f.nome ILIKE '%%' || $%d || '%%'", escaparLike(filtro.Nome))
	}
	if filtro.Ativo != nil {
		f.Add("f.ativo = $%d", *filtro.Ativo)
	} else {
		f.AddSemArg("f.ativo = TRUE")
	}
	return f
}

// Listar lista famílias com filtros, ordenação e paginação
func (s *FamiliasService) Listar(ctx context.Context, filtro models.FamiliaFiltro, pag models.Paginacao) ([]models.Familia, int, error) {
	f := montarFiltroFamilias(filtro)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM familias f %s", f.Where())
	if err := s.db.QueryRow(countQuery, f.Args()...).Scan(&total); err != nil {
		logrus.WithError(err).Error("Erro ao contar famílias")
		return nil, 0, fmt.Errorf("erro ao buscar famílias")
	}

	query := fmt.Sprintf(`
		SELECT f.id, f.nome, f.descricao, f.ativo, f.created_at,
			   (SELECT COUNT(*) FROM produtos p WHERE p.familia_id = f.id AND p.ativo = true) AS total_produtos
		FROM familias f
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, f.Where(), montarOrdenacao(filtro.Ordering, ordenacaoFamilias, ordenacaoFamiliasPadrao), f.ProximoIndice(), f.ProximoIndice()+1)

	args := append(f.Args(), pag.PageSize, pag.Offset())
	rows, err := s.db.Query(query, args...)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar famílias")
		return nil, 0, fmt.Errorf("erro ao buscar famílias")
	}
	defer rows.Close()

	familias := []models.Familia{}
	for rows.Next() {
		var fam models.Familia
		if err := rows.Scan(&fam.ID, &fam.Nome, &fam.Descricao, &fam.Ativo, &fam.CreatedAt, &fam.TotalProdutos); err != nil {
			logrus.WithError(err).Error("Erro ao escanear família")
			return nil, 0, fmt.Errorf("erro ao buscar famílias")
		}
		familias = append(familias, fam)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("erro ao iterar famílias: %w", err)
	}

	return familias, total, nil
}

// Buscar busca uma família ativa pelo ID. Família inativa não é visível na
// leitura pública, então responde como inexistente.
func (s *FamiliasService) Buscar(ctx context.Context, id int64) (*models.Familia, error) {
	query := `
		SELECT f.id, f.nome, f.descricao, f.ativo, f.created_at,
			   (SELECT COUNT(*) FROM produtos p WHERE p.familia_id = f.id AND p.ativo = true) AS total_produtos
		FROM familias f
		WHERE f.id = $1 AND f.ativo = TRUE
	`

	var fam models.Familia
	err := s.db.QueryRow(query, id).Scan(&fam.ID, &fam.Nome, &fam.Descricao, &fam.Ativo, &fam.CreatedAt, &fam.TotalProdutos)
	if err == sql.ErrNoRows {
		return nil, ErrFamiliaNaoEncontrada
	}
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar família")
		return nil, fmt.Errorf("erro ao buscar família")
	}

	return &fam, nil
}
