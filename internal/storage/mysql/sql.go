package mysql

const roomCols = `id, room_number, room_type, status, price_per_night, capacity, floor,
  description, amenities, is_active, created_at, updated_at`

const insertRoomSQL = `
INSERT INTO rooms (room_number, room_type, status, price_per_night, capacity, floor,
  description, amenities, is_active, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?)`

const updateRoomSQL = `
UPDATE rooms SET room_number = ?, room_type = ?, status = ?, price_per_night = ?, capacity = ?,
  floor = ?, description = ?, amenities = ?, is_active = ?, updated_at = ?
WHERE id = ?`

const roomTypeCols = `id, name, display_name, is_active, created_at, updated_at`

const insertRoomTypeSQL = `
INSERT INTO room_type_configs (name, display_name, is_active, created_at, updated_at)
VALUES (?,?,?,?,?)`

const customerCols = `id, first_name, last_name, email, phone, address, city, state, country,
  zip_code, id_type, id_number, date_of_birth, created_at, updated_at`

const insertCustomerSQL = `
INSERT INTO customers (first_name, last_name, email, phone, address, city, state, country,
  zip_code, id_type, id_number, date_of_birth, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

const updateCustomerSQL = `
UPDATE customers SET first_name = ?, last_name = ?, email = ?, phone = ?, address = ?, city = ?,
  state = ?, country = ?, zip_code = ?, id_type = ?, id_number = ?, date_of_birth = ?, updated_at = ?
WHERE id = ?`

const bookingCols = `id, booking_reference, customer_id, room_id, created_by, check_in_date,
  check_out_date, number_of_guests, number_of_nights, room_price, total_amount, discount_amount,
  tax_percent, tax_amount, final_amount, status, special_requests, created_at, updated_at,
  checked_in_at, checked_out_at`

const insertBookingSQL = `
INSERT INTO bookings (booking_reference, customer_id, room_id, created_by, check_in_date,
  check_out_date, number_of_guests, number_of_nights, room_price, total_amount, discount_amount,
  tax_percent, tax_amount, final_amount, status, special_requests, created_at, updated_at,
  checked_in_at, checked_out_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

const updateBookingSQL = `
UPDATE bookings SET check_in_date = ?, check_out_date = ?, number_of_guests = ?,
  number_of_nights = ?, room_price = ?, total_amount = ?, discount_amount = ?, tax_percent = ?,
  tax_amount = ?, final_amount = ?, status = ?, special_requests = ?, updated_at = ?,
  checked_in_at = ?, checked_out_at = ?
WHERE id = ?`

const updateBookingStatusSQL = `
UPDATE bookings SET status = ?, checked_in_at = ?, checked_out_at = ?, updated_at = ?
WHERE id = ?`

// overlapSQL finds active bookings whose [check_in, check_out) meets [?, ?).
const overlapSQL = `
SELECT ` + bookingCols + `
FROM bookings
WHERE room_id = ? AND id <> ?
  AND status IN ('pending','confirmed','checked_in')
  AND check_in_date < ? AND check_out_date > ?
ORDER BY check_in_date`

const paymentCols = `id, transaction_id, booking_id, amount, payment_method, status, payment_date,
  reference_number, notes, created_at, updated_at`

const insertPaymentSQL = `
INSERT INTO payments (transaction_id, booking_id, amount, payment_method, status, payment_date,
  reference_number, notes, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?)`

const updatePaymentSQL = `
UPDATE payments SET amount = ?, payment_method = ?, status = ?, payment_date = ?,
  reference_number = ?, notes = ?, updated_at = ?
WHERE id = ?`

const getSettingsSQL = `
SELECT hotel_name, hotel_address, hotel_phone, hotel_email, gst_number, updated_at
FROM hotel_settings WHERE id = 1`

const saveSettingsSQL = `
INSERT INTO hotel_settings (id, hotel_name, hotel_address, hotel_phone, hotel_email, gst_number, updated_at)
VALUES (1,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  hotel_name = VALUES(hotel_name),
  hotel_address = VALUES(hotel_address),
  hotel_phone = VALUES(hotel_phone),
  hotel_email = VALUES(hotel_email),
  gst_number = VALUES(gst_number),
  updated_at = VALUES(updated_at)`

const lockLastRunSQL = `SELECT last_run_date FROM job_runs WHERE job_name = ? FOR UPDATE`

const setLastRunSQL = `
INSERT INTO job_runs (job_name, last_run_date) VALUES (?, ?)
ON DUPLICATE KEY UPDATE last_run_date = VALUES(last_run_date)`
