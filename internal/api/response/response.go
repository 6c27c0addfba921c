// Package response concentra a escrita das respostas JSON dos handlers.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
)

// Tamanho máximo aceito no corpo das requisições.
const maxBodyBytes = 1 << 20

// Handle processa o resultado do serviço e envia a resposta padronizada ao cliente.
// Com err nil, data é serializado com successStatus; caso contrário o erro é
// mapeado para o envelope {code, category, message}.
func Handle(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err == nil {
		JSON(w, log, successStatus, data)
		log.Debug("Requisição concluída com sucesso", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": successStatus,
		})
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
		// Detalhes do driver ficam só no log.
		message = "Ocorreu um erro interno. Tente novamente mais tarde."
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	JSON(w, log, status, domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// Error é um atalho para Handle com erro.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	Handle(w, r, log, nil, err, 0)
}

// JSON escreve data como JSON com o status informado.
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Decode lê o corpo JSON da requisição em dst.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
	return nil
}

// PathID lê um parâmetro de rota inteiro e positivo (ex.: /v1/products/{id}).
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError(fmt.Sprintf("O parâmetro '%s' deve ser um inteiro positivo.", name))
	}
	return id, nil
}

// QueryInt lê um parâmetro de query inteiro; ausente devolve def.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.NewValidationError(fmt.Sprintf("O parâmetro '%s' deve ser um inteiro.", name))
	}
	return n, nil
}

// QueryInt64Ptr lê um parâmetro de query inteiro opcional.
func QueryInt64Ptr(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return nil, apperror.NewValidationError(fmt.Sprintf("O parâmetro '%s' deve ser um inteiro positivo.", name))
	}
	return &n, nil
}

// DecodeItems converte cada elemento bruto em T e descarta, sem erro, os que
// não convertem (ex.: quantidade 2.5 ou "3" num campo inteiro).
func DecodeItems[T any](raw []json.RawMessage) []T {
	items := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}
