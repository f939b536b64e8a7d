package flow

// User-facing texts, carried over from the bot's original Russian UI.
const (
	msgGreeting = "Привет! Здесь ты можешь:\n" +
		"1. Озвучивать текст (/generate)\n" +
		"2. Клонировать голос (/add_voice)\n" +
		"3. Синхронизировать голоса с твоей библиотекой голосов (/sync_voices)"

	msgNoVoices = "Голоса не найдены. Пожалуйста, используйте сначала команду /sync_voices"

	msgChooseLanguage = "Выберите язык для озвучки текста:"
	msgSendText       = "Отправьте текст, который нужно озвучить."
	msgAudioCaption   = "Вот ваше аудио!"

	msgSyncStarted = "Начинаю синхронизацию голосов..."
	msgSyncDone    = "✅ Голоса успешно синхронизированы!"

	msgCloneIntro = "📁 Отправьте аудиофайл для клонирования голоса.\n\n" +
		"📋 Требования к файлу:\n" +
		"• Формат: mp3, wav, m4a\n" +
		"• Длительность: минимум 30 секунд чистой речи\n" +
		"• Качество: хорошее качество записи без шумов\n" +
		"• Содержание: только один голос без фоновой музыки\n\n" +
		"💡 Рекомендации для лучшего результата:\n" +
		"• Длительность 1-10 минут\n" +
		"• Четкая речь без сильного акцента\n" +
		"• Отсутствие посторонних звуков"

	msgDownloading = "⏳ Загружаю файл..."
	msgFileStored  = "✅ Файл успешно загружен!\n\n" +
		"Теперь отправьте имя для этого голоса (максимум 32 символа)\n" +
		"💡 Совет: Используйте описательное имя, например: 'Мужской_голос_RU'"
	msgCloneStarted = "⏳ Начинаю процесс клонирования голоса..."

	msgBadFileFormat = "❌ Неподдерживаемый формат файла. Используйте mp3, wav или m4a"
	msgFileTooLarge  = "❌ Файл слишком большой. Максимальный размер - 50MB"
	msgFileTooShort  = "❌ Аудиофайл слишком короткий. Минимальная длительность - 30 секунд"
	msgNameTooLong   = "❌ Имя слишком длинное. Используйте максимум 32 символа."

	msgCancelled      = "❌ Операция отменена."
	msgStorageFailure = "❌ Хранилище голосов недоступно. Попробуйте позже."
)
