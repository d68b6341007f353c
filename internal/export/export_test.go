package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jcargnielo/designacao-pedidos/internal/models"
)

var sampleOrders = []models.Order{
	{ID: 1, Number: "123", Assignee: "Alice", Status: models.StatusDone,
		StartedAt: "10/03/2024 09:30", CompletedAt: "10/03/2024 16:45"},
	{ID: 2, Number: "456", Assignee: "Bruno", Status: models.StatusPending},
}

func TestOrdersCSV(t *testing.T) {
	data, err := OrdersCSV(sampleOrders)
	require.NoError(t, err)

	want := "ID,Pedido,Funcionário,Status,Data Início,Data Conclusão\n" +
		"1,123,Alice,Concluído,10/03/2024 09:30,10/03/2024 16:45\n" +
		"2,456,Bruno,Pendente,,\n"
	assert.Equal(t, want, string(data))
}

func TestOrdersCSVEmpty(t *testing.T) {
	data, err := OrdersCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "ID,Pedido,Funcionário,Status,Data Início,Data Conclusão\n", string(data))
}

func TestOrdersXLSX(t *testing.T) {
	data, err := OrdersXLSX(sampleOrders)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Pedidos")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Pedido", "Funcionário", "Status", "Data Início", "Data Conclusão"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Alice", rows[1][2])
	assert.Equal(t, "Concluído", rows[1][3])
	assert.Equal(t, "456", rows[2][1])
	assert.Equal(t, "Pendente", rows[2][3])
}
