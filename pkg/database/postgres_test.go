package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

var errCommitSimulado = errors.New("falha simulada no commit")

// Driver mínimo cujas transações sempre falham no commit, para exercitar o
// caminho de erro de Transaction sem um banco real
type drvCommitFalho struct{}

func (drvCommitFalho) Open(name string) (driver.Conn, error) { return &connCommitFalho{}, nil }

type connCommitFalho struct{}

func (*connCommitFalho) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("não suportado")
}
func (*connCommitFalho) Close() error              { return nil }
func (*connCommitFalho) Begin() (driver.Tx, error) { return &txCommitFalho{}, nil }

type txCommitFalho struct{}

func (*txCommitFalho) Commit() error   { return errCommitSimulado }
func (*txCommitFalho) Rollback() error { return nil }

func init() {
	sql.Register("commit-falho", drvCommitFalho{})
}

func novoClienteCommitFalho(t *testing.T) *PostgresClient {
	t.Helper()
	db, err := sql.Open("commit-falho", "")
	if err != nil {
		t.Fatalf("abrir driver de teste: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &PostgresClient{DB: db, logger: logrus.New()}
}

// Falha no commit precisa chegar ao chamador, não ser reportada como sucesso
func TestTransactionPropagaErroDeCommit(t *testing.T) {
	client := novoClienteCommitFalho(t)

	err := client.Transaction(func(tx *sql.Tx) error { return nil })
	if !errors.Is(err, errCommitSimulado) {
		t.Errorf("Transaction = %v, esperado erro de commit", err)
	}
}

func TestTransactionPropagaErroDaFuncao(t *testing.T) {
	client := novoClienteCommitFalho(t)

	errFn := errors.New("regra de negócio violada")
	err := client.Transaction(func(tx *sql.Tx) error { return errFn })
	if !errors.Is(err, errFn) {
		t.Errorf("Transaction = %v, esperado o erro da função", err)
	}
	if errors.Is(err, errCommitSimulado) {
		t.Error("erro da função não deveria ser substituído pelo commit")
	}
}
