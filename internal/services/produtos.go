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

var ErrProdutoNaoEncontrado = errors.New("produto não encontrado")

var ordenacaoProdutos = map[string]string{
	"nome":       "p.nome",
	"peso":       "p.peso",
	"created_at": "p.created_at",
}

const ordenacaoProdutosPadrao = "p.nome ASC"

// ProdutosService gerencia operações relacionadas a produtos
type ProdutosService struct {
	db *database.PostgresClient
}

// NewProdutosService cria uma nova instância do ProdutosService
func NewProdutosService(db *database.PostgresClient) *ProdutosService {
	return &ProdutosService{db: db}
}

// montarFiltroProdutos traduz os filtros da listagem para condições SQL.
// Sem ?ativo= explícito a leitura pública mostra apenas registros ativos.
func montarFiltroProdutos(filtro models.ProdutoFiltro) *filtroSQL {
	f := &filtroSQL{}
	if filtro.Nome != "" {
		f.Add("p.nome ILIKE '%%' || $%d || '%%'", escaparLike(filtro.Nome))
	}
	if filtro.Familia != nil {
		f.Add("p.familia_id = $%d", *filtro.Familia)
	}
	if filtro.PesoMin != nil {
		f.Add("p.peso >= $%d", *filtro.PesoMin)
	}
	if filtro.PesoMax != nil {
		f.Add("p.peso <= $%d", *filtro.PesoMax)
	}
	if filtro.Ativo != nil {
		f.Add("p.ativo = $%d", *filtro.Ativo)
	} else {
		f.AddSemArg("p.ativo = TRUE")
	}
	return f
}

const selectProduto = `
	SELECT p.id, p.nome, p.peso, p.volume, p.ativo, p.created_at,
		   f.id, f.nome, f.descricao
	FROM produtos p
	JOIN familias f ON f.id = p.familia_id
`

func escanearProduto(scan func(...interface{}) error) (models.Produto, error) {
	var p models.Produto
	err := scan(
		&p.ID, &p.Nome, &p.Peso, &p.Volume, &p.Ativo, &p.CreatedAt,
		&p.Familia.ID, &p.Familia.Nome, &p.Familia.Descricao,
	)
	return p, err
}

// Listar lista produtos com filtros, ordenação e paginação
func (s *ProdutosService) Listar(ctx context.Context, filtro models.ProdutoFiltro, pag models.Paginacao) ([]models.Produto, int, error) {
	f := montarFiltroProdutos(filtro)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM produtos p %s", f.Where())
	if err := s.db.QueryRow(countQuery, f.Args()...).Scan(&total); err != nil {
		logrus.WithError(err).Error("Erro ao contar produtos")
		return nil, 0, fmt.Errorf("erro ao buscar produtos")
	}

	query := fmt.Sprintf(`%s %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		selectProduto, f.Where(),
		montarOrdenacao(filtro.Ordering, ordenacaoProdutos, ordenacaoProdutosPadrao),
		f.ProximoIndice(), f.ProximoIndice()+1)

	args := append(f.Args(), pag.PageSize, pag.Offset())
	rows, err := s.db.Query(query, args...)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar produtos")
		return nil, 0, fmt.Errorf("erro ao buscar produtos")
	}
	defer rows.Close()

	produtos := []models.Produto{}
	for rows.Next() {
		p, err := escanearProduto(rows.Scan)
		if err != nil {
			logrus.WithError(err).Error("Erro ao escanear produto")
			return nil, 0, fmt.Errorf("erro ao buscar produtos")
		}
		produtos = append(produtos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("erro ao iterar produtos: %w", err)
	}

	return produtos, total, nil
}

// Buscar busca um produto ativo pelo ID. Produto inativo não é visível na
// leitura pública, então responde como inexistente.
func (s *ProdutosService) Buscar(ctx context.Context, id int64) (*models.Produto, error) {
	row := s.db.QueryRow(selectProduto+" WHERE p.id = $1 AND p.ativo = TRUE", id)
	p, err := escanearProduto(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrProdutoNaoEncontrado
	}
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar produto")
		return nil, fmt.Errorf("erro ao buscar produto")
	}
	return &p, nil
}
