package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"entregas-api/internal/models"
	"entregas-api/pkg/database"
)

var (
	ErrRotaNaoEncontrada = errors.New("rota não encontrada")
	ErrPedidoForaDaRota  = errors.New("pedido não pertence à rota")
	ErrStatusInvalido    = errors.New("status inválido")
	ErrTransicaoInvalida = errors.New("transição de status não permitida")
	ErrPedidoJaEmRota    = errors.New("pedido já está vinculado a uma rota")
)

var ordenacaoRotas = map[string]string{
	"data_rota":  "r.data_rota",
	"status":     "r.status",
	"created_at": "r.created_at",
}

// Rotas mais recentes primeiro, como a listagem pública espera
const ordenacaoRotasPadrao = "r.created_at DESC"

// RotasService gerencia operações relacionadas a rotas de entrega
type RotasService struct {
	db *database.PostgresClient
}

// NewRotasService cria uma nova instância do RotasService
func NewRotasService(db *database.PostgresClient) *RotasService {
	return &RotasService{db: db}
}

// montarFiltroRotas traduz os filtros da listagem para condições SQL
func montarFiltroRotas(filtro models.RotaFiltro) (*filtroSQL, error) {
	f := &filtroSQL{}
	if filtro.DataInicio != "" {
		inicio, err := models.ParseData(filtro.DataInicio)
		if err != nil {
			return nil, ErrDataInvalida
		}
		f.Add("r.data_rota >= $%d", inicio)
	}
	if filtro.DataFim != "" {
		fim, err := models.ParseData(filtro.DataFim)
		if err != nil {
			return nil, ErrDataInvalida
		}
		f.Add("r.data_rota <= $%d", fim)
	}
	if filtro.Status != "" {
		if !models.RotaStatus(filtro.Status).Valido() {
			return nil, ErrStatusInvalido
		}
		f.Add("r.status = $%d", filtro.Status)
	}
	if filtro.CapacidadeMin != nil {
		f.Add("r.capacidade_max >= $%d", *filtro.CapacidadeMin)
	}
	if filtro.CapacidadeMax != nil {
		f.Add("r.capacidade_max <= $%d", *filtro.CapacidadeMax)
	}
	return f, nil
}

// Listar lista rotas na projeção reduzida, com total de pedidos e peso
// agregados direto no SQL
func (s *RotasService) Listar(ctx context.Context, filtro models.RotaFiltro, pag models.Paginacao) ([]models.RotaSimple, int, error) {
	f, err := montarFiltroRotas(filtro)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM rotas r %s", f.Where())
	if err := s.db.QueryRow(countQuery, f.Args()...).Scan(&total); err != nil {
		logrus.WithError(err).Error("Erro ao contar rotas")
		return nil, 0, fmt.Errorf("erro ao buscar rotas")
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.data_rota, r.capacidade_max, r.status,
			   COUNT(DISTINCT rp.id) AS total_pedidos,
			   COALESCE(SUM(pr.peso * pp.quantidade), 0) AS peso_total
		FROM rotas r
		LEFT JOIN rotas_pedidos rp ON rp.rota_id = r.id
		LEFT JOIN produtos_pedidos pp ON pp.pedido_id = rp.pedido_id
		LEFT JOIN produtos pr ON pr.id = pp.produto_id
		%s
		GROUP BY r.id
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, f.Where(), montarOrdenacao(filtro.Ordering, ordenacaoRotas, ordenacaoRotasPadrao), f.ProximoIndice(), f.ProximoIndice()+1)

	args := append(f.Args(), pag.PageSize, pag.Offset())
	rows, err := s.db.Query(query, args...)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar rotas")
		return nil, 0, fmt.Errorf("erro ao buscar rotas")
	}
	defer rows.Close()

	rotas := []models.RotaSimple{}
	for rows.Next() {
		var r models.RotaSimple
		if err := rows.Scan(&r.ID, &r.DataRota, &r.CapacidadeMax, &r.Status, &r.TotalPedidos, &r.PesoTotal); err != nil {
			logrus.WithError(err).Error("Erro ao escanear rota")
			return nil, 0, fmt.Errorf("erro ao buscar rotas")
		}
		rotas = append(rotas, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("erro ao iterar rotas: %w", err)
	}

	return rotas, total, nil
}

// Buscar busca uma rota completa: pedidos na ordem de entrega, trajeto
// cronológico e estatísticas de entrega
func (s *RotasService) Buscar(ctx context.Context, id int64) (*models.Rota, error) {
	var rota models.Rota
	err := s.db.QueryRow(`
		SELECT id, data_rota, capacidade_max, status, created_at, updated_at
		FROM rotas
		WHERE id = $1
	`, id).Scan(&rota.ID, &rota.DataRota, &rota.CapacidadeMax, &rota.Status, &rota.CreatedAt, &rota.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRotaNaoEncontrada
	}
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar rota")
		return nil, fmt.Errorf("erro ao buscar rota")
	}

	if err := s.carregarPedidos(&rota); err != nil {
		return nil, err
	}
	if err := s.carregarTrajetos(&rota); err != nil {
		return nil, err
	}

	rota.CalcularEntregas()

	return &rota, nil
}

func (s *RotasService) carregarPedidos(rota *models.Rota) error {
	query := `
		SELECT rp.id, rp.ordem_entrega, rp.entregue, rp.data_entrega,
			   p.id, p.nf, p.dtpedido, p.latitude, p.longitude, u.name, p.observacao,
			   COALESCE((
					SELECT SUM(pr.peso * pp.quantidade)
					FROM produtos_pedidos pp
					JOIN produtos pr ON pr.id = pp.produto_id
					WHERE pp.pedido_id = p.id
			   ), 0) AS peso_pedido
		FROM rotas_pedidos rp
		JOIN pedidos p ON p.id = rp.pedido_id
		LEFT JOIN usuarios u ON u.id = p.usuario_id
		WHERE rp.rota_id = $1
		ORDER BY rp.ordem_entrega
	`

	rows, err := s.db.Query(query, rota.ID)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar pedidos da rota")
		return fmt.Errorf("erro ao buscar rota")
	}
	defer rows.Close()

	rota.Pedidos = []models.RotaPedido{}
	rota.PesoTotalPedidos = 0
	for rows.Next() {
		var rp models.RotaPedido
		var pesoPedido float64
		if err := rows.Scan(
			&rp.ID, &rp.OrdemEntrega, &rp.Entregue, &rp.DataEntrega,
			&rp.Pedido.ID, &rp.Pedido.NF, &rp.Pedido.DtPedido,
			&rp.Pedido.Latitude, &rp.Pedido.Longitude,
			&rp.Pedido.UsuarioNome, &rp.Pedido.Observacao,
			&pesoPedido,
		); err != nil {
			logrus.WithError(err).Error("Erro ao escanear pedido da rota")
			return fmt.Errorf("erro ao buscar rota")
		}
		rota.PesoTotalPedidos += pesoPedido
		rota.Pedidos = append(rota.Pedidos, rp)
	}
	return rows.Err()
}

func (s *RotasService) carregarTrajetos(rota *models.Rota) error {
	rows, err := s.db.Query(`
		SELECT id, latitude, longitude, datahora
		FROM rotas_trajetos
		WHERE rota_id = $1
		ORDER BY datahora
	`, rota.ID)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar trajetos da rota")
		return fmt.Errorf("erro ao buscar rota")
	}
	defer rows.Close()

	rota.Trajetos = []models.RotaTrajeto{}
	for rows.Next() {
		var t models.RotaTrajeto
		if err := rows.Scan(&t.ID, &t.Latitude, &t.Longitude, &t.Datahora); err != nil {
			logrus.WithError(err).Error("Erro ao escanear trajeto da rota")
			return fmt.Errorf("erro ao buscar rota")
		}
		rota.Trajetos = append(rota.Trajetos, t)
	}
	return rows.Err()
}

// Criar cria uma rota e vincula os pedidos informados, com ordem_entrega
// sequencial (1..n) na ordem enviada. Pedido já vinculado a outra rota
// aborta a criação.
func (s *RotasService) Criar(ctx context.Context, req *models.RotaCreate) (*models.Rota, error) {
	status := models.RotaPlanejada
	if req.Status != nil {
		if !req.Status.Valido() {
			return nil, ErrStatusInvalido
		}
		status = *req.Status
	}

	var rotaID int64
	err := s.db.Transaction(func(tx *sql.Tx) error {
		err := tx.QueryRow(`
			INSERT INTO rotas (data_rota, capacidade_max, status)
			VALUES ($1, $2, $3)
			RETURNING id
		`, req.DataRota, req.CapacidadeMax, status).Scan(&rotaID)
		if err != nil {
			return fmt.Errorf("erro ao inserir rota: %w", err)
		}

		for ordem, pedidoID := range req.PedidosIDs {
			var exists, emRota bool
			err := tx.QueryRow(`
				SELECT EXISTS(SELECT 1 FROM pedidos WHERE id = $1),
					   EXISTS(SELECT 1 FROM rotas_pedidos WHERE pedido_id = $1)
			`, pedidoID).Scan(&exists, &emRota)
			if err != nil {
				return fmt.Errorf("erro ao verificar pedido: %w", err)
			}
			if !exists {
				return ErrPedidoNaoEncontrado
			}
			if emRota {
				return ErrPedidoJaEmRota
			}

			if _, err := tx.Exec(`
				INSERT INTO rotas_pedidos (rota_id, pedido_id, ordem_entrega)
				VALUES ($1, $2, $3)
			`, rotaID, pedidoID, ordem+1); err != nil {
				return fmt.Errorf("erro ao vincular pedido à rota: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrPedidoNaoEncontrado) || errors.Is(err, ErrPedidoJaEmRota) {
			return nil, err
		}
		logrus.WithError(err).Error("Erro ao criar rota")
		return nil, fmt.Errorf("erro ao criar rota")
	}

	logrus.WithFields(logrus.Fields{
		"rota_id": rotaID,
		"pedidos": len(req.PedidosIDs),
		"status":  status,
	}).Info("Rota criada com sucesso")

	return s.Buscar(ctx, rotaID)
}

// AtualizarStatus muda o status da rota, validando a progressão
// PLANEJADA → EM_EXECUCAO → CONCLUIDA (retroceder não é permitido)
func (s *RotasService) AtualizarStatus(ctx context.Context, id int64, novo models.RotaStatus) (*models.Rota, error) {
	if !novo.Valido() {
		return nil, ErrStatusInvalido
	}

	var atual models.RotaStatus
	err := s.db.QueryRow("SELECT status FROM rotas WHERE id = $1", id).Scan(&atual)
	if err == sql.ErrNoRows {
		return nil, ErrRotaNaoEncontrada
	}
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar status da rota")
		return nil, fmt.Errorf("erro ao atualizar rota")
	}

	if !models.TransicaoValida(atual, novo) {
		return nil, ErrTransicaoInvalida
	}

	if _, err := s.db.Exec(
		"UPDATE rotas SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		novo, id,
	); err != nil {
		logrus.WithError(err).Error("Erro ao atualizar status da rota")
		return nil, fmt.Errorf("erro ao atualizar rota")
	}

	logrus.WithFields(logrus.Fields{
		"rota_id": id,
		"de":      atual,
		"para":    novo,
	}).Info("Status da rota atualizado")

	return s.Buscar(ctx, id)
}

// MarcarEntrega marca (ou desmarca) a entrega de um pedido da rota,
// registrando data_entrega quando entregue
func (s *RotasService) MarcarEntrega(ctx context.Context, rotaID, pedidoID int64, entregue bool) (*models.Rota, error) {
	var dataEntrega *time.Time
	if entregue {
		agora := time.Now()
		dataEntrega = &agora
	}

	result, err := s.db.Exec(`
		UPDATE rotas_pedidos
		SET entregue = $1, data_entrega = $2
		WHERE rota_id = $3 AND pedido_id = $4
	`, entregue, dataEntrega, rotaID, pedidoID)
	if err != nil {
		logrus.WithError(err).Error("Erro ao marcar entrega")
		return nil, fmt.Errorf("erro ao marcar entrega")
	}

	afetadas, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar linhas afetadas: %w", err)
	}
	if afetadas == 0 {
		// Distingue rota inexistente de pedido fora da rota
		var rotaExiste bool
		if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM rotas WHERE id = $1)", rotaID).Scan(&rotaExiste); err != nil {
			return nil, fmt.Errorf("erro ao verificar rota: %w", err)
		}
		if !rotaExiste {
			return nil, ErrRotaNaoEncontrada
		}
		return nil, ErrPedidoForaDaRota
	}

	logrus.WithFields(logrus.Fields{
		"rota_id":   rotaID,
		"pedido_id": pedidoID,
		"entregue":  entregue,
	}).Info("Entrega atualizada")

	return s.Buscar(ctx, rotaID)
}

// RegistrarTrajeto grava um ponto GPS do trajeto da rota
func (s *RotasService) RegistrarTrajeto(ctx context.Context, rotaID int64, req *models.TrajetoCreate) (*models.RotaTrajeto, error) {
	var rotaExiste bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM rotas WHERE id = $1)", rotaID).Scan(&rotaExiste); err != nil {
		logrus.WithError(err).Error("Erro ao verificar rota")
		return nil, fmt.Errorf("erro ao registrar trajeto")
	}
	if !rotaExiste {
		return nil, ErrRotaNaoEncontrada
	}

	var trajeto models.RotaTrajeto
	err := s.db.QueryRow(`
		INSERT INTO rotas_trajetos (rota_id, latitude, longitude)
		VALUES ($1, $2, $3)
		RETURNING id, latitude, longitude, datahora
	`, rotaID, *req.Latitude, *req.Longitude).Scan(&trajeto.ID, &trajeto.Latitude, &trajeto.Longitude, &trajeto.Datahora)
	if err != nil {
		logrus.WithError(err).Error("Erro ao registrar trajeto")
		return nil, fmt.Errorf("erro ao registrar trajeto")
	}

	return &trajeto, nil
}
