package services

import (
	"fmt"
	"strings"
)

// montarOrdenacao traduz o parâmetro ordering ("campo" ou "-campo") para a
// cláusula SQL correspondente. Campos fora da lista permitida caem no padrão.
func montarOrdenacao(ordering string, permitidos map[string]string, padrao string) string {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		return padrao
	}

	direcao := "ASC"
	campo := ordering
	if strings.HasPrefix(ordering, "-") {
		direcao = "DESC"
		campo = ordering[1:]
	}

	coluna, ok := permitidos[campo]
	if !ok {
		return padrao
	}
	return fmt.Sprintf("%s %s", coluna, direcao)
}

// escaparLike neutraliza os metacaracteres do LIKE na busca parcial, para
// que "10%" case com o literal e não com qualquer sufixo
func escaparLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// filtroSQL acumula condições WHERE com placeholders posicionais numerados
type filtroSQL struct {
	condicoes []string
	args      []interface{}
}

// Add acrescenta uma condição com um placeholder ($N é preenchido na posição
// do verbo %d da condição)
func (f *filtroSQL) Add(condicao string, arg interface{}) {
	f.args = append(f.args, arg)
	f.condicoes = append(f.condicoes, fmt.Sprintf(condicao, len(f.args)))
}

// AddSemArg acrescenta uma condição sem placeholder
func (f *filtroSQL) AddSemArg(condicao string) {
	f.condicoes = append(f.condicoes, condicao)
}

// Where monta a cláusula WHERE completa (vazia se não há condições)
func (f *filtroSQL) Where() string {
	if len(f.condicoes) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.condicoes, " AND ")
}

// Args retorna os argumentos acumulados
func (f *filtroSQL) Args() []interface{} {
	return f.args
}

// ProximoIndice é o índice do próximo placeholder (para LIMIT/OFFSET)
func (f *filtroSQL) ProximoIndice() int {
	return len(f.args) + 1
}
