package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"entregas-api/internal/geo"
	"entregas-api/internal/models"
	"entregas-api/pkg/database"
)

var (
	ErrPedidoNaoEncontrado = errors.New("pedido não encontrado")
	ErrDataInvalida        = errors.New("data inválida: use o formato AAAA-MM-DD")
)

var ordenacaoPedidos = map[string]string{
	"dtpedido":   "p.dtpedido",
	"nf":         "p.nf",
	"created_at": "p.created_at",
}

// Pedidos mais recentes primeiro, como a listagem pública espera
const ordenacaoPedidosPadrao = "p.created_at DESC"

// PedidosService gerencia operações relacionadas a pedidos
type PedidosService struct {
	db *database.PostgresClient
}

// NewPedidosService cria uma nova instância do PedidosService
func NewPedidosService(db *database.PostgresClient) *PedidosService {
	return &PedidosService{db: db}
}

// montarFiltroPedidos traduz os filtros da listagem para condições SQL.
// O filtro geográfico (pedido_base + raio_km) não entra aqui: é aplicado em
// memória depois, sobre o resultado já filtrado.
func montarFiltroPedidos(filtro models.PedidoFiltro) (*filtroSQL, error) {
	f := &filtroSQL{}
	if filtro.NF != nil {
		f.Add("p.nf = $%d", *filtro.NF)
	}
	if filtro.Usuario != "" {
		f.Add("u.name ILIKE '%%' || $%d || '%%'", escaparLike(filtro.Usuario))
	}
	if filtro.DataInicio != "" {
		inicio, err := models.ParseData(filtro.DataInicio)
		if err != nil {
			return nil, ErrDataInvalida
		}
		f.Add("p.dtpedido >= $%d", inicio)
	}
	if filtro.DataFim != "" {
		fim, err := models.ParseData(filtro.DataFim)
		if err != nil {
			return nil, ErrDataInvalida
		}
		f.Add("p.dtpedido <= $%d", fim)
	}
	if filtro.DisponivelParaRota != nil {
		if *filtro.DisponivelParaRota {
			f.AddSemArg("NOT EXISTS (SELECT 1 FROM rotas_pedidos rp WHERE rp.pedido_id = p.id)")
		} else {
			f.AddSemArg("EXISTS (SELECT 1 FROM rotas_pedidos rp WHERE rp.pedido_id = p.id)")
		}
	}
	if len(filtro.Familias) > 0 {
		f.Add(`EXISTS (
			SELECT 1 FROM produtos_pedidos pp
			JOIN produtos pr ON pr.id = pp.produto_id
			WHERE pp.pedido_id = p.id AND pr.familia_id = ANY($%d)
		)`, pq.Array(filtro.Familias))
	}
	return f, nil
}

const selectPedidoSimple = `
	SELECT p.id, p.nf, p.dtpedido, p.latitude, p.longitude, u.name, p.observacao
	FROM pedidos p
	LEFT JOIN usuarios u ON u.id = p.usuario_id
`

// Listar lista pedidos com filtros, ordenação e paginação. Quando pedido_base
// e raio_km são informados, a seleção por distância (Haversine, inclusiva) é
// feita em memória e o pedido base sempre aparece no resultado; base
// inexistente resulta em lista vazia.
func (s *PedidosService) Listar(ctx context.Context, filtro models.PedidoFiltro, pag models.Paginacao) ([]models.PedidoSimple, int, error) {
	f, err := montarFiltroPedidos(filtro)
	if err != nil {
		return nil, 0, err
	}

	ordem := montarOrdenacao(filtro.Ordering, ordenacaoPedidos, ordenacaoPedidosPadrao)

	if filtro.PedidoBase != nil && filtro.RaioKm != nil {
		return s.listarPorRaio(filtro, f, ordem, pag)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM pedidos p LEFT JOIN usuarios u ON u.id = p.usuario_id %s", f.Where())
	if err := s.db.QueryRow(countQuery, f.Args()...).Scan(&total); err != nil {
		logrus.WithError(err).Error("Erro ao contar pedidos")
		return nil, 0, fmt.Errorf("erro ao buscar pedidos")
	}

	query := fmt.Sprintf("%s %s ORDER BY %s LIMIT $%d OFFSET $%d",
		selectPedidoSimple, f.Where(), ordem, f.ProximoIndice(), f.ProximoIndice()+1)

	args := append(f.Args(), pag.PageSize, pag.Offset())
	pedidos, err := s.buscarSimples(query, args...)
	if err != nil {
		return nil, 0, err
	}

	return pedidos, total, nil
}

// listarPorRaio aplica os filtros SQL sem paginação, seleciona por distância
// em memória e pagina o resultado final.
func (s *PedidosService) listarPorRaio(filtro models.PedidoFiltro, f *filtroSQL, ordem string, pag models.Paginacao) ([]models.PedidoSimple, int, error) {
	var baseLat, baseLng float64
	err := s.db.QueryRow("SELECT latitude, longitude FROM pedidos WHERE id = $1", *filtro.PedidoBase).
		Scan(&baseLat, &baseLng)
	if err == sql.ErrNoRows {
		return []models.PedidoSimple{}, 0, nil
	}
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar pedido base")
		return nil, 0, fmt.Errorf("erro ao buscar pedidos")
	}

	query := fmt.Sprintf("%s %s ORDER BY %s", selectPedidoSimple, f.Where(), ordem)
	candidatos, err := s.buscarSimples(query, f.Args()...)
	if err != nil {
		return nil, 0, err
	}

	selecionados := []models.PedidoSimple{}
	for _, p := range candidatos {
		if p.ID == *filtro.PedidoBase || geo.DentroDoRaio(baseLat, baseLng, p.Latitude, p.Longitude, *filtro.RaioKm) {
			selecionados = append(selecionados, p)
		}
	}

	total := len(selecionados)
	inicio := pag.Offset()
	if inicio > total {
		inicio = total
	}
	fim := inicio + pag.PageSize
	if fim > total {
		fim = total
	}

	return selecionados[inicio:fim], total, nil
}

func (s *PedidosService) buscarSimples(query string, args ...interface{}) ([]models.PedidoSimple, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar pedidos")
		return nil, fmt.Errorf("erro ao buscar pedidos")
	}
	defer rows.Close()

	pedidos := []models.PedidoSimple{}
	for rows.Next() {
		var p models.PedidoSimple
		if err := rows.Scan(&p.ID, &p.NF, &p.DtPedido, &p.Latitude, &p.Longitude, &p.UsuarioNome, &p.Observacao); err != nil {
			logrus.WithError(err).Error("Erro ao escanear pedido")
			return nil, fmt.Errorf("erro ao buscar pedidos")
		}
		pedidos = append(pedidos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar pedidos: %w", err)
	}

	return pedidos, nil
}

// Buscar busca um pedido completo (itens e totais) pelo ID
func (s *PedidosService) Buscar(ctx context.Context, id int64) (*models.Pedido, error) {
	query := `
		SELECT p.id, p.nf, p.observacao, p.dtpedido, p.latitude, p.longitude, p.created_at,
			   u.id, u.name, u.email
		FROM pedidos p
		LEFT JOIN usuarios u ON u.id = p.usuario_id
		WHERE p.id = $1
	`

	var pedido models.Pedido
	var usuarioID *uuid.UUID
	var usuarioName, usuarioEmail *string

	err := s.db.QueryRow(query, id).Scan(
		&pedido.ID, &pedido.NF, &pedido.Observacao, &pedido.DtPedido,
		&pedido.Latitude, &pedido.Longitude, &pedido.CreatedAt,
		&usuarioID, &usuarioName, &usuarioEmail,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPedidoNaoEncontrado
	}
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar pedido")
		return nil, fmt.Errorf("erro ao buscar pedido")
	}

	if usuarioID != nil {
		pedido.Usuario = &models.UsuarioSimple{ID: *usuarioID, Name: *usuarioName, Email: *usuarioEmail}
	}

	itens, err := s.buscarItens(id)
	if err != nil {
		return nil, err
	}
	pedido.Itens = itens
	pedido.CalcularTotais()

	return &pedido, nil
}

func (s *PedidosService) buscarItens(pedidoID int64) ([]models.ProdutoPedido, error) {
	query := `
		SELECT pp.id, pp.quantidade, pr.id, pr.nome, pr.peso, pr.volume, f.nome
		FROM produtos_pedidos pp
		JOIN produtos pr ON pr.id = pp.produto_id
		JOIN familias f ON f.id = pr.familia_id
		WHERE pp.pedido_id = $1
		ORDER BY pp.id
	`

	rows, err := s.db.Query(query, pedidoID)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar itens do pedido")
		return nil, fmt.Errorf("erro ao buscar pedido")
	}
	defer rows.Close()

	itens := []models.ProdutoPedido{}
	for rows.Next() {
		var item models.ProdutoPedido
		if err := rows.Scan(
			&item.ID, &item.Quantidade,
			&item.Produto.ID, &item.Produto.Nome, &item.Produto.Peso,
			&item.Produto.Volume, &item.Produto.FamiliaNome,
		); err != nil {
			logrus.WithError(err).Error("Erro ao escanear item do pedido")
			return nil, fmt.Errorf("erro ao buscar pedido")
		}
		itens = append(itens, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar itens: %w", err)
	}

	return itens, nil
}

// Criar cria um pedido com seus itens em uma única transação. Qualquer item
// com produto inexistente aborta a criação inteira.
func (s *PedidosService) Criar(ctx context.Context, req *models.PedidoCreate) (*models.Pedido, error) {
	var pedidoID int64

	err := s.db.Transaction(func(tx *sql.Tx) error {
		if req.UsuarioID != nil {
			var exists bool
			if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM usuarios WHERE id = $1)", *req.UsuarioID).Scan(&exists); err != nil {
				return fmt.Errorf("erro ao verificar usuário: %w", err)
			}
			if !exists {
				return ErrUsuarioNaoEncontrado
			}
		}

		err := tx.QueryRow(`
			INSERT INTO pedidos (usuario_id, nf, observacao, dtpedido, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, req.UsuarioID, req.NF, req.Observacao, req.DtPedido, *req.Latitude, *req.Longitude).Scan(&pedidoID)
		if err != nil {
			return fmt.Errorf("erro ao inserir pedido: %w", err)
		}

		return inserirItens(tx, pedidoID, req.Itens)
	})

	if err != nil {
		if errors.Is(err, ErrUsuarioNaoEncontrado) || errors.Is(err, ErrProdutoNaoEncontrado) {
			return nil, err
		}
		logrus.WithError(err).Error("Erro ao criar pedido")
		return nil, fmt.Errorf("erro ao criar pedido")
	}

	logrus.WithFields(logrus.Fields{
		"pedido_id": pedidoID,
		"nf":        req.NF,
		"itens":     len(req.Itens),
	}).Info("Pedido criado com sucesso")

	return s.Buscar(ctx, pedidoID)
}

// inserirItens valida e insere os itens do pedido dentro da transação
func inserirItens(tx *sql.Tx, pedidoID int64, itens []models.ItemPedidoCreate) error {
	for _, item := range itens {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM produtos WHERE id = $1)", item.ProdutoID).Scan(&exists); err != nil {
			return fmt.Errorf("erro ao verificar produto: %w", err)
		}
		if !exists {
			return ErrProdutoNaoEncontrado
		}

		if _, err := tx.Exec(`
			INSERT INTO produtos_pedidos (pedido_id, produto_id, quantidade)
			VALUES ($1, $2, $3)
		`, pedidoID, item.ProdutoID, item.Quantidade); err != nil {
			return fmt.Errorf("erro ao inserir item: %w", err)
		}
	}
	return nil
}

// Atualizar substitui os dados e os itens de um pedido em uma transação
func (s *PedidosService) Atualizar(ctx context.Context, id int64, req *models.PedidoCreate) (*models.Pedido, error) {
	err := s.db.Transaction(func(tx *sql.Tx) error {
		if req.UsuarioID != nil {
			var exists bool
			if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM usuarios WHERE id = $1)", *req.UsuarioID).Scan(&exists); err != nil {
				return fmt.Errorf("erro ao verificar usuário: %w", err)
			}
			if !exists {
				return ErrUsuarioNaoEncontrado
			}
		}

		result, err := tx.Exec(`
			UPDATE pedidos
			SET usuario_id = $1, nf = $2, observacao = $3, dtpedido = $4, latitude = $5, longitude = $6
			WHERE id = $7
		`, req.UsuarioID, req.NF, req.Observacao, req.DtPedido, *req.Latitude, *req.Longitude, id)
		if err != nil {
			return fmt.Errorf("erro ao atualizar pedido: %w", err)
		}

		afetadas, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("erro ao verificar linhas afetadas: %w", err)
		}
		if afetadas == 0 {
			return ErrPedidoNaoEncontrado
		}

		// Substitui os itens pelo conjunto enviado
		if _, err := tx.Exec("DELETE FROM produtos_pedidos WHERE pedido_id = $1", id); err != nil {
			return fmt.Errorf("erro ao remover itens antigos: %w", err)
		}

		return inserirItens(tx, id, req.Itens)
	})

	if err != nil {
		if errors.Is(err, ErrPedidoNaoEncontrado) || errors.Is(err, ErrUsuarioNaoEncontrado) || errors.Is(err, ErrProdutoNaoEncontrado) {
			return nil, err
		}
		logrus.WithError(err).Error("Erro ao atualizar pedido")
		return nil, fmt.Errorf("erro ao atualizar pedido")
	}

	logrus.WithField("pedido_id", id).Info("Pedido atualizado com sucesso")

	return s.Buscar(ctx, id)
}

// Remover remove um pedido e, por cascata, seus itens e vínculos com rotas
func (s *PedidosService) Remover(ctx context.Context, id int64) error {
	result, err := s.db.Exec("DELETE FROM pedidos WHERE id = $1", id)
	if err != nil {
		logrus.WithError(err).Error("Erro ao remover pedido")
		return fmt.Errorf("erro ao remover pedido")
	}

	afetadas, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao verificar linhas afetadas: %w", err)
	}
	if afetadas == 0 {
		return ErrPedidoNaoEncontrado
	}

	logrus.WithField("pedido_id", id).Info("Pedido removido com sucesso")
	return nil
}
