package consts

const (
	MsgGetSuccess    = "Lấy dữ liệu thành công."
	MsgCreateSuccess = "Tạo dữ liệu thành công."
	MsgUpdateSuccess = "Cập nhật dữ liệu thành công."
	MsgDeleteSuccess = "Xóa dữ liệu thành công."

	MsgGetErr    = "Lấy dữ liệu không thành công!"
	MsgCreateErr = "Tạo dữ liệu không thành công!"
	MsgUpdateErr = "Cập nhật dữ liệu không thành công!"
	MsgDeleteErr = "Xóa dữ liệu không thành công!"
)
