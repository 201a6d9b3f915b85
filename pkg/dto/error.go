package dto

// ErrorResponse is the body of a failed lifecycle command. Stage and
// EquipmentStatus name the state that blocked it, when relevant.
type ErrorResponse struct {
	Code            string `json:"code"`
	Message         string `json:"message"`
	Stage           string `json:"stage,omitempty"`
	EquipmentStatus string `json:"equipment_status,omitempty"`
}
