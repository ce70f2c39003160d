package repository

import "testing"

func TestEscapeLike(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado string
	}{
		{"CX1", "CX1"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c\d`, `c\\d`},
		{`100\%_`, `100\\\%\_`},
	}
	for _, c := range casos {
		if got := escapeLike(c.entrada); got != c.esperado {
			t.Errorf("escapeLike(%q) = %q, esperado %q", c.entrada, got, c.esperado)
		}
	}
}

func TestWhereCaixas(t *testing.T) {
	t.Run("só usuário", func(t *testing.T) {
		where, args := whereCaixas("u1", FiltroCaixas{})
		if where != "WHERE user_id = $1" {
			t.Errorf("where = %q", where)
		}
		if len(args) != 1 || args[0] != "u1" {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("tipo e prefixo", func(t *testing.T) {
		where, args := whereCaixas("u1", FiltroCaixas{
			Tipo:          "processo_judicial",
			NumeroPrefixo: "12",
		})
		if where != "WHERE user_id = $1 AND tipo = $2 AND numero_caixa ILIKE $3" {
			t.Errorf("where = %q", where)
		}
		if len(args) != 3 || args[1] != "processo_judicial" || args[2] != "12%" {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("prefixo com curinga escapado", func(t *testing.T) {
		_, args := whereCaixas("u1", FiltroCaixas{NumeroPrefixo: "50%"})
		if args[1] != `50\%%` {
			t.Errorf("prefixo = %v", args[1])
		}
	})
}

func TestAliasCols(t *testing.T) {
	got := aliasCols("p", "id, caixa_id,\n\tano")
	esperado := "p.id, p.caixa_id, p.ano"
	if got != esperado {
		t.Errorf("aliasCols = %q, esperado %q", got, esperado)
	}
}
